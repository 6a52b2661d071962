// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ConfigStore: Application configuration
//   - SlideStore: Content binding and asset persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AnalysisProvider: Region geometry. Without it, analysis JSON must be ingested directly.
//   - GeometryCache: Analysis caching. Without it, every load asks the provider.
//   - ContentGenerator: LLM content. Without it, only manual edits are possible.
//   - CollaborationChannel: Mutation broadcast. Without it, edits stay local.
//   - Exporter, FrameRenderer: Output collaborators.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
