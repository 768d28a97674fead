package postgres

import "fmt"

// TableNames holds environment-prefixed table names so dev/test/prod can
// share one database.
type TableNames struct {
	Folders   string
	Pages     string
	PageLinks string
	BinItems  string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Folders:   fmt.Sprintf("%sfolders", prefix),
		Pages:     fmt.Sprintf("%spages", prefix),
		PageLinks: fmt.Sprintf("%spage_links", prefix),
		BinItems:  fmt.Sprintf("%sbin_items", prefix),
	}
}
