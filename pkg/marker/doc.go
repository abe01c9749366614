/*
Package marker finds textual markers in documents and rewrites them.

	            +-------------+
	            |  Registry   |
	            | (tag→rule)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +-----+-----+
	|  Finder   |           | Replacer  |
	| (record)  |           | (rewrite) |
	+-----+-----+           +-----+-----+
	      |                       |
	      +-----------+-----------+
	                  |
	           +------+------+
	           | Aggregator  |
	           | (chunks→doc)|
	           +-------------+

🎯 Purpose:
- Hold named patterns (markers) with a template or callback replacement
- Record every occurrence per marker and file (find phase)
- Rewrite occurrences marker by marker (replace phase)

🔄 Flow:
1. Markers are registered on a Registry
2. A pipeline stage (FindMarkers / ReplaceMarkers) receives a File
3. The Aggregator collects the whole document, then runs the phase once
4. The phase returns the document (unchanged for find)

📝 Patterns:
Patterns use JavaScript regular expression syntax, compiled by regexp2 in
ECMAScript mode with ^ and $ anchored at line boundaries. \n, \r, U+2028 and
U+2029 all end a line, so CRLF files match like LF files and `.` stops at any
of them. `[^]` matches any character including newlines; backreferences such
as \2 are supported. Template replacements follow String.replace rules.

🔍 Example:

	reg, err := marker.NewRegistry(marker.Definition{
		Tag:     "copyright",
		Pattern: `<!-- insert:copyright:(\d{4}) -->`,
		Replace: marker.Func(func(rc marker.ReplaceContext, match string, groups ...marker.Group) (string, error) {
			return fmt.Sprintf("<!-- Copyright %s-%d -->", groups[0], time.Now().Year()), nil
		}),
	})
	if err != nil {
		return err
	}

	file, err = reg.ReplaceMarkers(marker.Options{})(ctx, file)
*/
package marker
