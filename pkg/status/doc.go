/*
Package status tracks and formats the outcome of every patched file.

	            +-------------+
	            |   Tracker   |
	            |  (entries)  |
	            +------+------+
	                   |
	      +------------+----------+
	      |                       |
	+-----+-----+           +-----+-----+
	|  Counts   |           | Formatter |
	| (tallies) |           | (UI/UX)   |
	+-----------+           +-----------+

🎯 Purpose:
- One Entry per file with exactly one FileStatus
- Tallies per status for the summary table
- Human readable lines through a FileFormatter

📊 Statuses:
- patched: at least one rule changed the text
- unchanged: nothing to do
- skipped: a file predicate matched or every rule was already applied
- not_found: a rule pattern had no match and the file is left as is
- file_not_found / read_error / write_error: I/O failures

Only the I/O failures count as failures. A pattern miss is reported with one
"Could not find" line per missing pattern but never fails a run.

🔍 Example:

	tracker := status.NewTracker(nil)
	tracker.Track(ctx, status.Entry{Name: "Button.kt", Status: status.StatusPatched})

	f := status.NewDefaultFileFormatter()
	for _, line := range f.FormatEntry(entry) {
		fmt.Println(line)
	}

	counts := tracker.Counts()
*/
package status
