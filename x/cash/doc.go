/*
Package cash keeps a wallet of coins for every address. A wallet never goes
below zero in any currency.

Pension contributions are paid from the contributor wallet into the ledger
custody wallet through the Controller.
*/
package cash
