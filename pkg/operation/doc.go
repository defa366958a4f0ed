/*
Package operation runs configured batches through the patcher.

	+-------------+
	|  Operation  |
	|  (a batch)  |
	+------+------+
	       |
	+------+------+
	|   Patcher   |
	| (plan/apply)|
	+------+------+
	       |
	+------+------+
	| log/status  |
	|  (report)   |
	+-------------+

🎯 Purpose:
- Builds one patcher per batch from the loaded config
- apply plans every file and writes back the ones that changed
- check plans only, optionally printing unified diffs
- Reports one status entry per file and tallies them

🔄 Flow:
1. Discover the batch files under its root
2. Plan: read, evaluate predicates, run rules in memory
3. Apply (apply only): write dirty files atomically
4. Report entries to the console logger and the tracker

⚡ Runner:
Operations run strictly one after another. The runner checks the context
between operations, so an interrupt stops before the next batch and never
in the middle of a write. A failing operation does not stop the others.

🔍 Example:

	op, err := operation.NewApplyOperation(operation.Options{
		Fs:     afero.NewOsFs(),
		Config: cfg,
		Batch:  cfg.Batches[0],
		Logger: console,
	})
	if err != nil {
		return err
	}
	counts, err := operation.NewRunner(zerolog.Ctx(ctx)).RunAll(ctx, []operation.Operation{op})
*/
package operation
