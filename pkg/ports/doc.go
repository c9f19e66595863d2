/*
Package ports defines the driven ports (interfaces) for the dialog engine.

These interfaces decouple the core from external implementations, allowing the
state layer to work with various storage backends and lock providers.

# Key Interfaces

  - StateStore: persists opaque per-scope state records.
  - DistributedLocker: serializes turn processing per conversation across
    replicas.

RunStateStoreContract is a reusable test suite every StateStore adapter should
pass.
*/
package ports
