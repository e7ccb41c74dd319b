// Package relay implements the session protocol client used to administer a
// group-chat relay.
//
// A Session owns one persistent websocket connection. Inbound frames are read
// on a dedicated goroutine and demultiplexed by the correlation Router:
// subscription labels correlate read flows (REQ ... EVENT ... EOSE), event
// identifiers correlate write flows (EVENT ... OK). The relay's AUTH
// challenge is handled by the Handshake, which signs the challenge and
// submits the authentication event over the same connection.
//
// Every pending correlation carries its own deadline; a stalled operation
// resolves with a timeout instead of holding its key forever. A transport
// failure resolves every pending correlation at once, so no caller is left
// waiting on a dead connection.
package relay
