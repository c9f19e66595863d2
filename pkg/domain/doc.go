/*
Package domain holds the core types of the dialog engine: activities, the
persisted dialog stack, the step action union, turn results, the error
taxonomy, and observability hooks.

The package has no dependencies on the engine or on any adapter; every other
package in the module speaks in these types.
*/
package domain
