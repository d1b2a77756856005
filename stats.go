package diffx

import (
	"bytes"
	"fmt"
)

// Stats counts a result sequence by kind
type Stats struct {
	Added       int `json:"added,omitempty"`       // values present only in the new document
	Removed     int `json:"removed,omitempty"`     // values present only in the old document
	Modified    int `json:"modified,omitempty"`    // same-kind value changes
	TypeChanged int `json:"typeChanged,omitempty"` // fundamental kind changes
}

// ResultStats tallies a result sequence
func ResultStats(rs Results) Stats {
	var s Stats
	for _, r := range rs {
		switch r.Type {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Modified:
			s.Modified++
		case TypeChanged:
			s.TypeChanged++
		}
	}
	return s
}

// Total returns the number of differences of any kind
func (s Stats) Total() int {
	return s.Added + s.Removed + s.Modified + s.TypeChanged
}

// FormatStats prints a one-line stats summary
func FormatStats(s Stats) string {
	return formatStats(s, false)
}

// FormatStatsColor prints a one-line stats summary with ANSI colors
func FormatStatsColor(s Stats) string {
	return formatStats(s, true)
}

func formatStats(s Stats, color bool) string {
	var addColor, removeColor, changeColor, closeColor string

	if color {
		addColor = "\x1b[32m"
		removeColor = "\x1b[31m"
		changeColor = "\x1b[34m"
		closeColor = "\x1b[0m"
	}

	buf := &bytes.Buffer{}

	additionsWord := "additions"
	if s.Added == 1 {
		additionsWord = "addition"
	}
	buf.WriteString(fmt.Sprintf("%s%d %s.%s", addColor, s.Added, additionsWord, closeColor))

	removalsWord := "removals"
	if s.Removed == 1 {
		removalsWord = "removal"
	}
	buf.WriteString(fmt.Sprintf(" %s%d %s.%s", removeColor, s.Removed, removalsWord, closeColor))

	modificationsWord := "modifications"
	if s.Modified == 1 {
		modificationsWord = "modification"
	}
	buf.WriteString(fmt.Sprintf(" %s%d %s.%s", changeColor, s.Modified, modificationsWord, closeColor))

	if s.TypeChanged > 0 {
		typeChangesWord := "type changes"
		if s.TypeChanged == 1 {
			typeChangesWord = "type change"
		}
		buf.WriteString(fmt.Sprintf(" %s%d %s.%s", changeColor, s.TypeChanged, typeChangesWord, closeColor))
	}

	buf.WriteRune('\n')

	return buf.String()
}
