package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/parleychat/authcore/internal/common"
	"github.com/parleychat/authcore/internal/server/config"
	"github.com/parleychat/authcore/internal/server/models"
	"github.com/parleychat/authcore/internal/server/repositories/repomanager"
)

// guildsPerShard controls the bot shard computation: one shard per thousand
// guilds, with a floor of one.
const guildsPerShard = 1000

// GatewayInfo is handed to a client about to open a realtime connection.
type GatewayInfo struct {
	URL               string
	Shards            int
	SessionStartLimit *models.SessionLimit
}

// GatewayService answers the pre-connect gateway query: where to connect,
// with how many shards, and how many session starts remain in the current
// 12-hour window.
type GatewayService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gatewayURL  string

	now func() time.Time
}

func NewGatewayService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *GatewayService {
	return &GatewayService{
		db:          db,
		repomanager: m,
		gatewayURL:  cfg.GatewayURL,
		now:         time.Now,
	}
}

// SessionStartLimit returns the user's ledger entry, replacing it with a
// fresh default one when it is absent or past its rolling window.
func (s *GatewayService) SessionStartLimit(ctx context.Context, userID int64) (*models.SessionLimit, error) {

	repo := s.repomanager.SessionLimits(s.db)

	limit, err := repo.Get(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("error reading session limit: %w", err)
	}

	if limit != nil && !limit.Expired(s.now()) {
		return limit, nil
	}

	limit = models.NewSessionLimit(userID, s.now())
	if err := repo.Replace(ctx, limit); err != nil {
		return nil, fmt.Errorf("error resetting session limit: %w", err)
	}
	return limit, nil
}

// Shards computes how many gateway shards the account should open. Regular
// accounts always get one; bots scale with guild membership.
func (s *GatewayService) Shards(ctx context.Context, user *models.User) (int, error) {
	if !user.Bot {
		return 1, nil
	}

	count, err := s.repomanager.Members(s.db).CountGuilds(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("error counting guilds: %w", err)
	}

	shards := count / guildsPerShard
	if shards < 1 {
		shards = 1
	}
	return shards, nil
}

// Info composes the full pre-connect response for the user.
func (s *GatewayService) Info(ctx context.Context, user *models.User) (*GatewayInfo, error) {
	shards, err := s.Shards(ctx, user)
	if err != nil {
		return nil, err
	}

	limit, err := s.SessionStartLimit(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &GatewayInfo{URL: s.gatewayURL, Shards: shards, SessionStartLimit: limit}, nil
}
