/*
Package ports defines the interfaces between the modulo engine and its
external collaborators.

An AutomatonStore lets several processes share built automatons (for example
through Redis) so that large tables are generated once. Stores are optional:
the engine always keeps its own in-process cache.
*/
package ports
