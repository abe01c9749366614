/*
Package operation runs the marker stages over a tree of files.

	+-----------+      +-----------+      +-----------+
	|  Source   | ---> |   find    | ---> |  replace  |
	| (globs)   |      | (registry)|      | (rewrite) |
	+-----------+      +-----------+      +-----+-----+
	                                            |
	                                      +-----+-----+
	                                      |  status   |
	                                      | (writes)  |
	                                      +-----------+

🎯 Purpose:
- Selects files with doublestar include and exclude globs
- Runs the find stage (and for replace, the replace stage) per file
- Hands replaced content to the status package for storage
- Bounds parallelism with an errgroup

🔄 Flow:
1. Source lists the files under the root
2. Each file is opened as a buffer or a stream
3. FindMarkers records its markers into the shared registry
4. ReplaceMarkers rewrites it and status.FileWriter persists it
5. The first failing file cancels the rest of the run

⚡ Concurrency:
Distinct files never share a registry entry, so files are processed in
parallel up to Jobs. A single file is always handled by one worker.

🔍 Example:

	op, err := operation.NewReplaceOperation(operation.Options{
		Source:   &operation.Source{Root: "www", Include: []string{"pages/*.html"}},
		Registry: reg,
		Jobs:     4,
		Output:   status.New("dist", zerolog.Ctx(ctx)),
	})
	if err != nil {
		return err
	}
	err = operation.NewRunner(zerolog.Ctx(ctx), false).Run(ctx, op)
*/
package operation
