// Package reconcile decides and applies the minimal set of calendar changes
// that converge an existing event set onto the desired one.
//
// # Architecture
//
// The package has two halves:
//
// 1. Reconcile: a pure function comparing desired events (freshly derived from
// a scrape) with existing events (a local file or a remote calendar). Every
// desired key is classified as create, update or unchanged. Existing-only keys
// are deleted in clear mode and preserved in merge mode, since the source may
// have paginated or temporarily omitted them.
//
// 2. ApplyDiff: the remote executor. It runs deletes, then creates, then
// updates through a Mutator, isolating failures per event and retrying
// transient ones with the configured retry.Policy.
//
// # Timestamps
//
// LastModified is only assigned to created and updated events. Unchanged
// events keep the existing timestamp bit-for-bit, so re-running against an
// unchanged source produces an empty Diff and identical output.
//
// # Usage Example
//
//	diff, err := reconcile.Reconcile(desired, existing, reconcile.Options{Mode: reconcile.ModeMerge})
//	if err != nil {
//	    return err // duplicate key or malformed event
//	}
//	result := reconcile.ApplyDiff(ctx, remote, calendarID, diff, reconcile.ApplyOptions{
//	    Retry: retry.Default(),
//	})
package reconcile
