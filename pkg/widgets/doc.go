// Package widgets describes the widget capability surface the form core
// targets. Elements carry the props a toolkit needs plus typed change
// handlers; toolkits (HTML, terminal) decide how to materialise them.
package widgets
