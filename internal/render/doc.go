// Package render turns domain.Record values into the record history HTML page.
//
// Each record is classified (section, skip or data) and rendered into one
// table row fragment. Field formatters never fail: a missing or malformed
// value degrades to an empty string or to its raw text, so a single bad cell
// cannot abort a build. The only side effect is the replay existence check,
// which goes through an AssetChecker; missing replays are reported as
// Warnings on the returned Document instead of being logged here.
//
// Days maintained depends on the calendar date. Renderer takes the reference
// date as an option so that two builds on the same date are byte-identical.
package render
