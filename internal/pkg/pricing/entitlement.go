package pricing

// TrialClientLimit is the client allowance for stores without an active
// subscription. A non-paying store gets a bounded trial, never zero and
// never unlimited.
const TrialClientLimit = 5

// CanAddClients decides whether a store at clientCount may register another
// client under the given limit.
func CanAddClients(clientCount, clientLimit int) bool {
	if clientLimit >= UnlimitedClientLimit {
		return true
	}
	return clientCount < clientLimit
}
