package llm

import "context"

type purposeKey struct{}

// Unlabelled is the purpose recorded for requests made outside a workflow
// step.
const Unlabelled = "unlabelled"

// WithPurpose labels the requests made with ctx. Workflow steps use the name
// of their collaborator, which lets LLM events be grouped per step. An empty
// label leaves ctx unchanged.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	if purpose == "" {
		return ctx
	}
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or Unlabelled.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return Unlabelled
}
