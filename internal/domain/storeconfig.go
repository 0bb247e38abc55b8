package domain

// Store configuration keys. The values live in a single keyed store and
// are re-read per query, since an admin may change them between requests.
const (
	ConfigStoreName     = "store_name"
	ConfigGridRows      = "grid_rows"
	ConfigGridCols      = "grid_cols"
	ConfigEntranceRow   = "entrance_row"
	ConfigEntranceCol   = "entrance_col"
	ConfigAdminPassword = "admin_password"
)

// Defaults applied when a key is absent.
const (
	DefaultStoreName = "My Supermarket"
	DefaultGridRows  = 6
	DefaultGridCols  = 5
)

// StoreLayout is the navigation-relevant slice of the store configuration.
type StoreLayout struct {
	Name     string
	Rows     int
	Cols     int
	Entrance Point
}

// Validate checks grid dimensions and entrance bounds.
func (l StoreLayout) Validate() error {
	if l.Rows < 2 || l.Cols < 2 {
		return ErrInvalidLayout
	}
	if !l.Entrance.InBounds(l.Rows, l.Cols) {
		return ErrOutOfBounds
	}
	return nil
}
