// Package model defines the provider-agnostic abstraction for streaming text
// generation with tool calling.
//
// Core goals:
//   - Expose generation as a single operation returning a raw delta stream
//   - Normalize tool declaration shapes (ToolDefinition, FunctionDefinition)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight scripting for tests (ScriptedModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers remain decoupled from vendor SDKs.
package model
