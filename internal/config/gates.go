package config

import "strings"

// GatePolicy names the access requirement in front of a group of routes.
type GatePolicy string

const (
	GateOpen          GatePolicy = "open"          // no token required
	GateAuthenticated GatePolicy = "authenticated" // any valid access token
	GateAdmin         GatePolicy = "admin"         // valid access token with role admin
)

// ResourceGate is the policy pair applied to one CRUD resource: Read covers
// list and get, Write covers create, update and delete.
type ResourceGate struct {
	Read  GatePolicy
	Write GatePolicy
}

// Resources served by the API, in registration order.
var Resources = []string{"movies", "directors", "genres", "users"}

// DefaultGates is the policy applied when no GATE_* variable overrides it.
// Movies and directors keep reads behind a token and writes behind admin.
// Genres are open.  Users are admin-only in both directions because the
// resource manages credentials.
var DefaultGates = map[string]ResourceGate{
	"movies":    {Read: GateAuthenticated, Write: GateAdmin},
	"directors": {Read: GateAuthenticated, Write: GateAdmin},
	"genres":    {Read: GateOpen, Write: GateOpen},
	"users":     {Read: GateAdmin, Write: GateAdmin},
}

// ParseGatePolicy converts s into a GatePolicy.  It reports false for
// unknown values.
func ParseGatePolicy(s string) (GatePolicy, bool) {
	switch p := GatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case GateOpen, GateAuthenticated, GateAdmin:
		return p, true
	}
	return "", false
}

// LoadGates returns the gate policy of every resource, reading
// GATE_<RESOURCE>_READ and GATE_<RESOURCE>_WRITE.  Unset or unknown values
// keep the resource default.
func LoadGates() map[string]ResourceGate {
	out := make(map[string]ResourceGate, len(Resources))
	for _, res := range Resources {
		g := DefaultGates[res]
		prefix := "GATE_" + strings.ToUpper(res) + "_"
		if p, ok := ParseGatePolicy(envStr(prefix+"READ", "")); ok {
			g.Read = p
		}
		if p, ok := ParseGatePolicy(envStr(prefix+"WRITE", "")); ok {
			g.Write = p
		}
		out[res] = g
	}
	return out
}
