// Package localization builds the fallback matcher that maps displayed
// dialogue text back to its dialogue ID using the game's localization data.
// The table is built lazily, only when a line arrives without a usable ID.
package localization
