package sqldb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// timeLayouts are the text encodings accepted when a driver hands back a
// timestamp as text.
var timeLayouts = []string{
	sqliteTimeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// sqlTime scans a timestamp stored either natively or as text.
type sqlTime struct {
	Time  time.Time
	Valid bool
}

func (st *sqlTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		st.Time, st.Valid = time.Time{}, false
		return nil
	case time.Time:
		st.Time, st.Valid = v.UTC(), true
		return nil
	case string:
		t, err := parseTime(v)
		if err != nil {
			return err
		}
		st.Time, st.Valid = t, true
		return nil
	case []byte:
		t, err := parseTime(string(v))
		if err != nil {
			return err
		}
		st.Time, st.Valid = t, true
		return nil
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (st sqlTime) ptr() *time.Time {
	if !st.Valid {
		return nil
	}
	t := st.Time
	return &t
}

// jsonList scans a JSON array of strings stored as TEXT or JSONB.
type jsonList []string

func (l *jsonList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = jsonList{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into list", src)
	}
	out := []string{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("decoding list: %w", err)
	}
	*l = out
	return nil
}

// listArg encodes a list as JSON text. A nil list is stored as [].
func listArg(l []string) (string, error) {
	if l == nil {
		l = []string{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(data), nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}
