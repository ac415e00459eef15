package store

// Key prefixes. Document kinds and indexes never share a prefix, so
// iteration over one prefix can never observe another kind's values.
const (
	scorePrefix     = "score:"
	chartPrefix     = "chart:" // chart:{game}:{chartID}
	sessionPrefix   = "session:"
	pbPrefix        = "pb:" // pb:{userID}:{chartID}
	importPrefix    = "import:"
	gameStatsPrefix = "ugs:" // ugs:{userID}:{game}:{playtype}
	goalPrefix      = "goal:"
	milestonePrefix = "milestone:"
	userPrefix      = "user:"

	// Index prefixes. Values are the ID of the document they point at
	// (or a copy of the document for user-scoped listings).
	scoreUserIdxPrefix    = "idx:score:user:"    // idx:score:user:{userID}:{scoreID}
	sessionLastIdxPrefix  = "idx:session:last:"  // idx:session:last:{userID}:{game}:{playtype} -> sessionID
	importUserIdxPrefix   = "idx:import:user:"   // idx:import:user:{userID}:{importID}
	goalSubPrefix         = "idx:goalsub:"       // idx:goalsub:{userID}:{goalID} -> subscription doc
	milestoneSubPrefix    = "idx:milestonesub:"  // idx:milestonesub:{userID}:{milestoneID} -> subscription doc
	userNameIdxPrefix     = "idx:user:name:"     // idx:user:name:{username} -> userID
)

// buildKey constructs a database key from a prefix and path segments
// joined by ':'.
func buildKey(prefix string, segments ...string) []byte {
	n := len(prefix)
	for _, seg := range segments {
		n += len(seg) + 1
	}

	buf := make([]byte, 0, n)
	buf = append(buf, prefix...)
	for i, seg := range segments {
		if i > 0 {
			buf = append(buf, ':')
		}
		buf = append(buf, seg...)
	}
	return buf
}
