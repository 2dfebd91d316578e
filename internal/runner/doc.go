// Package runner drives one analysis run: a bounded reason/act/observe loop
// over a model and the CSV tools.
//
// Invariant:
//   - every tool call in a model message is answered by exactly one tool-result
//     message, in call order, before the model is invoked again.
//
// Flow:
//
//	user(task+csv) -> model(tool calls) -> tool(result)... -> model(text)
//
// A run ends Completed when the model answers without tool calls, or
// BudgetExhausted after MaxIterations model calls; the latter returns the last
// message's text as a best-effort answer.
package runner
