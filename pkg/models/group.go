package models

// DuplicateGroup is a set of content-identical files found in one tree.
// MainFile is the canonical copy; Duplicates lists the remaining members
// and never includes MainFile. All members share Hash and SizePerFile.
// The JSON field names are the on-disk report schema.
type DuplicateGroup struct {
	MainFile    string   `json:"main_file"`
	Duplicates  []string `json:"duplicates"`
	Hash        string   `json:"hash"`
	SizePerFile int64    `json:"size_per_file"`
	WastedSize  int64    `json:"wasted_size"`
}

// Members returns the total number of files in the group, main file included.
func (g *DuplicateGroup) Members() int {
	return len(g.Duplicates) + 1
}

// TotalWasted sums the wasted bytes across groups.
func TotalWasted(groups []DuplicateGroup) int64 {
	var total int64
	for i := range groups {
		total += groups[i].WastedSize
	}
	return total
}

// TotalDuplicates counts the redundant files across groups, main files
// excluded.
func TotalDuplicates(groups []DuplicateGroup) int {
	var total int
	for i := range groups {
		total += len(groups[i].Duplicates)
	}
	return total
}
