// Package bots holds the static council member registry: the mapping from
// internal bot IDs to display names, roles, Telegram bot usernames, and the
// environment variables carrying each member's Telegram bot token.
package bots

import "os"

// Member describes one council member.
type Member struct {
	ID       string // internal bot ID used on the event stream
	Name     string // display name shown in the group
	Role     string
	Username string // Telegram bot username (without @)
	TokenEnv string // env var holding this member's Telegram bot token
}

// members is keyed by internal bot ID.
var members = map[string]Member{
	"chad":     {ID: "chad", Name: "James", Role: "Chart Analyst", Username: "JamesCouncilBot", TokenEnv: "JAMES_BOT_TOKEN"},
	"quantum":  {ID: "quantum", Name: "Keone", Role: "Quant Analyst", Username: "KeoneCouncilBot", TokenEnv: "KEONE_BOT_TOKEN"},
	"sensei":   {ID: "sensei", Name: "Portdev", Role: "Community Analyst", Username: "PortdevCouncilBot", TokenEnv: "PORTDEV_BOT_TOKEN"},
	"sterling": {ID: "sterling", Name: "Harpal", Role: "Risk Manager", Username: "HarpalCouncilBot", TokenEnv: "HARPAL_BOT_TOKEN"},
	"oracle":   {ID: "oracle", Name: "Mike", Role: "Whale Tracker", Username: "MikeCouncilBot", TokenEnv: "MIKE_BOT_TOKEN"},
}

// IsMember reports whether id is a known council member.
func IsMember(id string) bool {
	_, ok := members[id]
	return ok
}

// Lookup returns the member for the given bot ID.
func Lookup(id string) (Member, bool) {
	m, ok := members[id]
	return m, ok
}

// Name returns the display name for a bot ID, falling back to the ID itself
// for unknown members so formatted output never goes blank.
func Name(id string) string {
	if m, ok := members[id]; ok {
		return m.Name
	}
	return id
}

// Token returns the member's Telegram bot token from the environment, or ""
// if the member is unknown or the variable is unset. Callers fall back to
// the main bot in that case.
func Token(id string) string {
	m, ok := members[id]
	if !ok {
		return ""
	}
	return os.Getenv(m.TokenEnv)
}

// ByUsername resolves a Telegram bot username to an internal bot ID.
func ByUsername(username string) (string, bool) {
	for id, m := range members {
		if m.Username == username {
			return id, true
		}
	}
	return "", false
}

// All returns every council member.
func All() []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		out = append(out, m)
	}
	return out
}
