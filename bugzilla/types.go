package bugzilla

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ListResponse is the envelope returned by the rest/bug query endpoint.
//
// The limit field is textual in the wire format even though it holds a
// number; use LimitValue to read it as an integer.
type ListResponse struct {
	Offset       int    `json:"offset"`
	Limit        string `json:"limit"`
	TotalMatches int    `json:"total_matches"`
	Bugs         []Bug  `json:"bugs"`

	// Extra holds top-level keys not covered by the named fields.
	Extra map[string]json.RawMessage `json:"-"`
}

// LimitValue parses the textual limit field returned by the server.
func (r *ListResponse) LimitValue() (int, error) {
	return strconv.Atoi(r.Limit)
}

// Bug is a single bug record as returned by the Bugzilla REST API.
//
// Component, version, and target_release are plural in the current Bugzilla
// schema. The cc and cc_detail lists are parallel: cc holds the raw
// identifiers and cc_detail the resolved users, in the same order.
type Bug struct {
	ID             int    `json:"id"`
	Summary        string `json:"summary"`
	Status         string `json:"status"`
	Resolution     string `json:"resolution"`
	Severity       string `json:"severity"`
	Priority       string `json:"priority"`
	Product        string `json:"product"`
	Classification string `json:"classification"`
	Platform       string `json:"platform"`
	OpSys          string `json:"op_sys"`
	URL            string `json:"url"`
	Whiteboard     string `json:"whiteboard"`

	Component     []string `json:"component"`
	Version       []string `json:"version"`
	TargetRelease []string `json:"target_release"`
	Keywords      []string `json:"keywords"`
	Groups        []string `json:"groups"`

	Creator           string   `json:"creator"`
	CreatorDetail     User     `json:"creator_detail"`
	AssignedTo        string   `json:"assigned_to"`
	AssignedToDetail  User     `json:"assigned_to_detail"`
	QAContact         string   `json:"qa_contact"`
	QAContactDetail   *User    `json:"qa_contact_detail"`
	DocsContact       string   `json:"docs_contact"`
	DocsContactDetail *User    `json:"docs_contact_detail"`
	CC                []string `json:"cc"`
	CCDetail          []User   `json:"cc_detail"`

	IsOpen              bool `json:"is_open"`
	IsConfirmed         bool `json:"is_confirmed"`
	IsCreatorAccessible bool `json:"is_creator_accessible"`
	IsCCAccessible      bool `json:"is_cc_accessible"`

	CreationTime   time.Time `json:"creation_time"`
	LastChangeTime time.Time `json:"last_change_time"`
	Deadline       *string   `json:"deadline"` // plain YYYY-MM-DD date, not a timestamp

	TargetMilestone string   `json:"target_milestone"`
	DependsOn       []int    `json:"depends_on"`
	Blocks          []int    `json:"blocks"`
	DupeOf          *int     `json:"dupe_of"`
	SeeAlso         []string `json:"see_also"`

	EstimatedTime int64  `json:"estimated_time"`
	RemainingTime int64  `json:"remaining_time"`
	ActualTime    int64  `json:"actual_time"`
	WorkTime      *int64 `json:"work_time"`

	UpdateToken *string `json:"update_token"`

	// Not part of the default response; present only when requested
	// through include_fields.
	Flags             []Flag   `json:"flags"`
	Tags              []string `json:"tags"`
	DependentProducts []string `json:"dependent_products"`

	// Extra holds object keys not covered by the named fields.
	Extra map[string]json.RawMessage `json:"-"`
}

// User is a resolved Bugzilla account, embedded wherever the API exposes a
// person reference.
type User struct {
	Email    string `json:"email"`
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Flag is a review or approval flag set on a bug, such as a release
// approval. Status is one of "+", "-", or "?".
type Flag struct {
	ID               int       `json:"id"`
	TypeID           int       `json:"type_id"`
	CreationDate     time.Time `json:"creation_date"`
	ModificationDate time.Time `json:"modification_date"`
	Name             string    `json:"name"`
	Status           string    `json:"status"`
	Setter           string    `json:"setter"`
	Requestee        *string   `json:"requestee"`

	Extra map[string]json.RawMessage `json:"-"`
}

// apiErrorResponse is the envelope Bugzilla returns on failure.
type apiErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

var (
	listResponseKeys = jsonKeys(reflect.TypeOf(ListResponse{}))
	bugKeys          = jsonKeys(reflect.TypeOf(Bug{}))
	userKeys         = jsonKeys(reflect.TypeOf(User{}))
	flagKeys         = jsonKeys(reflect.TypeOf(Flag{}))
)

// jsonKeys collects the JSON object keys named by a struct's field tags.
func jsonKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	return keys
}

// extraFields returns the object keys in data that are not named struct
// fields, or nil when there are none.
func extraFields(data []byte, known map[string]struct{}) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for key := range known {
		delete(raw, key)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// UnmarshalJSON decodes the named fields and captures any remaining keys
// into Extra.
func (r *ListResponse) UnmarshalJSON(data []byte) error {
	type plain ListResponse
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, listResponseKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*r = ListResponse(p)
	return nil
}

// UnmarshalJSON decodes the named fields and captures any remaining keys
// into Extra.
func (b *Bug) UnmarshalJSON(data []byte) error {
	type plain Bug
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, bugKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*b = Bug(p)
	return nil
}

// UnmarshalJSON decodes the named fields and captures any remaining keys
// into Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, userKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*u = User(p)
	return nil
}

// UnmarshalJSON decodes the named fields and captures any remaining keys
// into Extra.
func (f *Flag) UnmarshalJSON(data []byte) error {
	type plain Flag
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, flagKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*f = Flag(p)
	return nil
}
