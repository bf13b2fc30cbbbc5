// Package naming derives destination folder names from file groups,
// classifies system files and resolves name conflicts at a destination.
//
// Folder names come from a group's representative prefix. A fixed table of
// phrase rules maps well-known prefixes ("whatsapp chat", "screenshot",
// "img_", ...) to a canonical folder; anything else is cleaned of dates,
// version markers and sequence-number suffixes and capitalized.
package naming
