/*
Package http exposes the modfsm engine as a small JSON API.

	POST /remainder               {"modulus": 3, "input": "1101"} -> {"modulus": 3, "remainder": 1}
	POST /remainder/stream?modulus=3   raw digits as body
	GET  /automata/{modulus}      transition table as JSON
	GET  /automata/{modulus}/graph[?input=...]   Mermaid diagram
	GET  /healthz

Invalid input answers 400, malformed automatons 500.
*/
package http
