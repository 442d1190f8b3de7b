/*
Package gconf stores the configuration of an extension as a singleton
under the "_c:<pkg>" key. The configuration is written once from the
genesis with InitConfig; later changes go through a message handler of
the extension owning it.
*/
package gconf
