// Entity kinds addressable from the command line.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// kindOps erases the entity type of one table so commands can address any
// kind by name.
type kindOps struct {
	list   func(ctx context.Context) (any, error)
	get    func(ctx context.Context, id int64) (any, bool, error)
	create func(ctx context.Context, data []byte) (any, error)
	update func(ctx context.Context, id int64, data []byte) (any, bool, error)
	delete func(ctx context.Context, id int64) (bool, error)
}

func opsFor[E any, P types.Patch[E]](t types.Table[E, P]) kindOps {
	decode := func(data []byte, create bool) (P, error) {
		var p P
		if err := json.Unmarshal(data, &p); err != nil {
			return p, userError("invalid JSON: %v", err)
		}
		if err := p.Validate(create); err != nil {
			return p, userError("%v", err)
		}
		return p, nil
	}
	return kindOps{
		list: func(ctx context.Context) (any, error) {
			return t.List(ctx)
		},
		get: func(ctx context.Context, id int64) (any, bool, error) {
			return t.Get(ctx, id)
		},
		create: func(ctx context.Context, data []byte) (any, error) {
			p, err := decode(data, true)
			if err != nil {
				return nil, err
			}
			return t.Create(ctx, p.New())
		},
		update: func(ctx context.Context, id int64, data []byte) (any, bool, error) {
			p, err := decode(data, false)
			if err != nil {
				return nil, false, err
			}
			return t.Update(ctx, id, p)
		},
		delete: t.Delete,
	}
}

// kindNames maps accepted names, plural and singular, to the plural form.
var kindNames = map[string]string{
	"properties":   "properties",
	"property":     "properties",
	"leads":        "leads",
	"lead":         "leads",
	"appointments": "appointments",
	"appointment":  "appointments",
	"workflows":    "workflows",
	"workflow":     "workflows",
}

func validKinds() string {
	seen := map[string]bool{}
	var names []string
	for _, plural := range kindNames {
		if !seen[plural] {
			seen[plural] = true
			names = append(names, plural)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func lookupKind(s types.Store, name string) (string, kindOps, error) {
	plural, ok := kindNames[strings.ToLower(name)]
	if !ok {
		return "", kindOps{}, userError("unknown kind %q (valid: %s)", name, validKinds())
	}
	switch plural {
	case "properties":
		return plural, opsFor(s.Properties()), nil
	case "leads":
		return plural, opsFor(s.Leads()), nil
	case "appointments":
		return plural, opsFor(s.Appointments()), nil
	default:
		return plural, opsFor(s.Workflows()), nil
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, userError("invalid id %q: must be a positive integer", raw)
	}
	return id, nil
}

// readPayload returns arg, or stdin when arg is "-".
func readPayload(arg string, stdin io.Reader) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, userError("reading stdin: %v", err)
	}
	return data, nil
}

func newEncoder(w io.Writer, indent bool) *json.Encoder {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc
}
