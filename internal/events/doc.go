// Package events defines the notification events the system emits when
// tasks change, and the pure target-computation rules that decide which
// user identities receive them.
//
// Target computation is side-effect free so the dispatch rules can be
// tested exhaustively without any transport. The transport itself lives
// in the notify package.
package events
