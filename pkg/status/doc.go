/*
Package status manages output storage and status tracking for markrc.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +------------+-----------+
	      |                        |
	+-----+-----+            +-----+-----+
	|   Files   |            |  Console  |
	| (atomic)  |            |  (lines)  |
	+-----------+            +-----------+

🎯 Purpose:
- Writes replaced documents under the destination directory
- Tracks per-file outcome (new, modified, unchanged, failed)
- Reports progress while files are processed

🔄 Flow:
1. Receives replaced content from an operation
2. Compares it with what is already on disk
3. Writes changed files atomically (temp file + rename)
4. Records the outcome and logs it through zerolog

🤝 Interfaces:
- FileWriter: what operations persist through
- StatusReporter: outcome tracking and progress
- FileFormatter: message formatting

🔍 Example:

	mgr := status.New("dist", zerolog.Ctx(ctx))
	st, err := mgr.WriteFile(ctx, "index.html", content)
	if err != nil {
		return err
	}
	mgr.TrackFile(ctx, "index.html", status.FileInfo{Status: st})
*/
package status
