// Package campaignlifecycle implements the campaign state machine inside
// the campaign-voting context.
//
// The module owns campaign creation with escrowed prize funding and fee
// skimming, the single-vote-per-voter payout protocol, creator cancellation,
// and dust-sweeping closure. Reputation gating and fee accounting are
// consumed from sibling modules through ports; custody balances live in the
// platform ledger. Every operation runs as one atomic transaction and
// re-evaluates expiry lazily rather than via background timers.
package campaignlifecycle
