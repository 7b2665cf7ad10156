// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation formats PubMed metadata as a reference string.
package citation

import (
	"fmt"
	"io"
	"strings"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// Supported styles.
const (
	StyleNature = "nature"
	StyleCSL    = "csl"
)

// Nature formats c as "FirstAuthor et al. Journal (year)." The first
// author is everything before the first comma of the author name.
func Nature(c types.Citation) string {
	if len(c.Authors) == 0 {
		return fmt.Sprintf("Unknown author. %s (%s).", c.Journal, c.Year)
	}
	first := strings.TrimSpace(strings.SplitN(c.Authors[0], ",", 2)[0])
	return fmt.Sprintf("%s et al. %s (%s).", first, c.Journal, c.Year)
}

// Format renders c in the requested style. An unsupported style is not an
// error: a warning goes to w and Nature style is used.
func Format(c types.Citation, style string, w io.Writer) (string, error) {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", StyleNature:
		return Nature(c), nil
	case StyleCSL:
		var b strings.Builder
		if err := WriteCSL([]CSLItem{FromCitation(c)}, &b); err != nil {
			return "", err
		}
		return b.String(), nil
	default:
		fmt.Fprintf(w, "warning: style '%s' not supported yet, using Nature style\n", style)
		return Nature(c), nil
	}
}
