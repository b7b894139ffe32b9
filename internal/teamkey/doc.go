// Package teamkey maps source-native team codes to canonical join keys.
//
// Sources disagree on code casing and, across seasons, on the numeric part of
// the code: a club's "G12ABC" this season was "g11abc" last season. Normalize
// folds case and can shift a prior-season code forward one year so both
// seasons land on the same key.
package teamkey
