/*
Package pension implements a time-gated pension ledger.

A participant registers once with a retirement time that must lie in the
future and a benefit window. Until the retirement time is reached the
participant may fund the pension and move both time marks. Funds are moved
from the participant wallet into the ledger custody wallet and the aggregated
balance is tracked by the ledger record. Once block time reaches the
retirement time the record is retired and every further change is rejected.

Registration order is kept by a unique index over the pensioner position, so
that any registered address can be looked up by its index.

The configuration owner may request a state calculation that summarizes the
ledger and stores a snapshot. Each snapshot records when the next calculation
is due, one payout interval after it was taken.
*/
package pension
