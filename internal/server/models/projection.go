package models

// UserField enumerates the projectable columns of the users table. Using a
// typed enum instead of raw column names lets projections be checked at
// compile time.
type UserField int

const (
	FieldID UserField = iota
	FieldEmail
	FieldPassword
	FieldUsername
	FieldDiscriminator
	FieldAvatar
	FieldBanner
	FieldFlags
	FieldBot
	FieldVerified
)

// Column returns the database column name for the field.
func (f UserField) Column() string {
	switch f {
	case FieldID:
		return "id"
	case FieldEmail:
		return "email"
	case FieldPassword:
		return "password"
	case FieldUsername:
		return "username"
	case FieldDiscriminator:
		return "discriminator"
	case FieldAvatar:
		return "avatar"
	case FieldBanner:
		return "banner"
	case FieldFlags:
		return "flags"
	case FieldBot:
		return "bot"
	case FieldVerified:
		return "verified"
	default:
		return ""
	}
}

// AllUserFields lists every projectable field in column order.
var AllUserFields = []UserField{
	FieldID, FieldEmail, FieldPassword, FieldUsername, FieldDiscriminator,
	FieldAvatar, FieldBanner, FieldFlags, FieldBot, FieldVerified,
}

// Projection selects which user columns a read should fetch. Only takes
// precedence over Defer when both are set; an empty projection fetches
// every column.
type Projection struct {
	Only  []UserField
	Defer []UserField
}

// Fields resolves the projection to the concrete field list.
func (p Projection) Fields() []UserField {
	if len(p.Only) > 0 {
		return p.Only
	}
	if len(p.Defer) == 0 {
		return AllUserFields
	}
	skip := make(map[UserField]struct{}, len(p.Defer))
	for _, f := range p.Defer {
		skip[f] = struct{}{}
	}
	fields := make([]UserField, 0, len(AllUserFields))
	for _, f := range AllUserFields {
		if _, ok := skip[f]; !ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// IDOnly reports whether the projection requests nothing beyond the id.
// Token verification special-cases this to skip a second store read.
func (p Projection) IDOnly() bool {
	return len(p.Only) == 1 && p.Only[0] == FieldID
}
