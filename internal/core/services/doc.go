// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The fit validator, display scaler, region model and compositor are pure
// functions of their inputs. EditorSession ties them together with asset
// placement, persistence and the collaboration channel.
package services
