// Package treasuryservice implements the platform treasury inside the
// finance-core context.
//
// The module owns the singleton platform configuration (authority, fee rate,
// running totals), custody of collected fees, and authority-only fee
// withdrawal. Campaign creation consults it for the fee rate and reports
// every skimmed fee back through ports. It keeps business rules in
// application/domain layers and isolates infrastructure concerns behind
// ports and adapters.
package treasuryservice
