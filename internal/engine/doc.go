// Package engine evaluates inbound chat events against per-chat
// moderation policy and emits ordered decisions.
//
// Rules run in fixed priority order and the first terminal match wins:
//
//  1. Admins bypass all moderation.
//  2. Anti-link: messages with non-whitelisted domains are deleted;
//     newbies are additionally muted.
//  3. Newbies may not forward messages or post media.
//  4. Flood: exceeding the per-window message budget mutes the sender.
//
// Evaluation is synchronous and per-event; concurrency belongs to the
// transport, which must serialize events for the same (chat, user) key.
package engine
