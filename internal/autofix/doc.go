// Package autofix closes the loop between a captured runtime error and an
// applied repair. Classification decides whether an error is worth acting on,
// deterministic textual fixes run first, and only errors that survive both
// gates reach the confirm-then-AI flow. Failed AI repairs escalate to the
// chat collaborator instead of retrying.
package autofix
