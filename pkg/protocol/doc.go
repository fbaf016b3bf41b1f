// Package protocol reads the referee's line protocol and writes the bot's
// replies.
//
// The referee sends a setup block once per match (site count, link count and
// one "a b distance" line per link) followed by one block per turn: an entity
// count and one "id TYPE a1 a2 a3 a4 a5" line per entity. The bot answers each
// turn with a single line of ';'-separated MOVE commands, or WAIT.
package protocol
