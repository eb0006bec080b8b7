// Package history keeps a bounded rolling log of question/answer
// exchanges per caller token.
package history

import "github.com/unikit/regent/pkg/history/types"

// Exchange is one question/answer pair in a caller's conversation log.
// The definition lives in the types subpackage so backends can share it
// without importing this package back.
type Exchange = types.Exchange

// Store represents storage for caller conversation logs. Every
// implementation keeps at most the configured number of exchanges per
// token, evicting the oldest first.
type Store = types.Store
