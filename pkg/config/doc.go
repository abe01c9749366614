/*
Package config manages configuration parsing and validation for markrc.

	            +-------------+
	            |   Config    |
	            |  (markers)  |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |  JSON   |   |   HCL   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+
	                   |
	            +------+------+
	            |  Registry   |
	            | (pkg/marker)|
	            +-------------+

🎯 Purpose:
- Loads marker definitions and run settings from a file
- Validates definitions and fills defaults
- Converts markers into registry definitions

🔄 Flow:
1. Picks a parser by file extension
2. Decodes the format-specific syntax
3. Validates and applies defaults
4. Builds a marker.Registry via Registry()

🏷️ Markers:
Each marker has a tag and a pattern (re). Its replacement is either a
regexp substitution template (replace, with $1 and $&) or a Go
text/template (template, rendered through pkg/render). A marker with
neither is find-only.

🧮 HCL:
HCL expressions can use year (the current year) and env (the process
environment):

	marker "copyright" {
	  re       = "<!-- insert:copyright:(\\d{4}) -->"
	  template = "<!-- Copyright {{ index .Groups 0 }}-${year} -->"
	}

🔍 Example:

	cfg, err := config.Load(ctx, "markrc.yaml")
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
*/
package config
