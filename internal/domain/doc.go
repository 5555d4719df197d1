// Package domain contains the core domain entities and value objects for walletpoll.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (HTTP, file system, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [WalletIdentity]: The name/password/seed triple used to open or create a wallet
//   - [NodeEndpoint]: The "host:port" address of the node a session synchronizes against
//   - [PollConfig]: Spacing and overlap policy of the status-polling loop
//   - [Reply]: An out-of-band result of an asynchronous session query
//   - [WalletStatus], [Utxo]: The payloads carried by a Reply
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
