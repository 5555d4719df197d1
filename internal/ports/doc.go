// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [WalletEngine]: Existence check, create and open against the wallet engine
//   - [SessionHandle]: The engine's per-wallet capability handle
//   - [Reporter]: Consumes out-of-band query results and dispatch events
//   - [StateObserver]: Receives lifecycle state changes
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (HTTP engine, zerolog, prometheus, etc.).
package ports
