// Package selection hands the scheme chosen in the catalog over to the
// application view. Navigation carries no parameters, so the choice lives in
// session state until an application is submitted from it.
package selection

import "time"

// Selection is the scheme a citizen chose to apply for.
type Selection struct {
	SchemeID   int       `json:"scheme_id"`
	SchemeName string    `json:"scheme_name"`
	Benefits   string    `json:"benefits"`
	Documents  []string  `json:"documents"`
	SelectedAt time.Time `json:"selected_at"`
}
