package events

import "github.com/idilsaglam/gqltodo/internal/logging"

type AuthTracer struct{}

var Auth = AuthTracer{}

func (AuthTracer) SignedIn(userID, source string) {
	logging.Trace("auth.signin", map[string]interface{}{"user": userID, "source": source})
}

func (AuthTracer) SignedOut(userID string) {
	logging.Trace("auth.signout", map[string]interface{}{"user": userID})
}

func (AuthTracer) Rejected(flow, reason string) {
	logging.Trace("auth.rejected", map[string]interface{}{"flow": flow, "reason": reason})
}
