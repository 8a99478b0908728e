package osc

const zero = string(byte(0))

// nulls returns a string of `i` nulls.
func nulls(i int) string {
	s := ""
	for j := 0; j < i; j++ {
		s += zero
	}
	return s
}

// be32 returns v as 4 big-endian bytes.
func be32(v uint32) string {
	return string([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

type testCase struct {
	name    string
	obj     Packet
	raw     []byte
	wantErr bool
}

var messageTestCases = []testCase{
	{
		"no_arguments",
		&Message{Address: "/a"},
		[]byte("/a" + nulls(2) + "," + nulls(3)),
		false,
	},
	{
		"int32",
		&Message{Address: "/oscify/0/note/key", Arguments: []interface{}{int32(60)}},
		[]byte("/oscify/0/note/key" + nulls(2) + ",i" + nulls(2) + be32(60)),
		false,
	},
	{
		"float32",
		&Message{Address: "/p", Arguments: []interface{}{float32(0.5)}},
		[]byte("/p" + nulls(2) + ",f" + nulls(2) + be32(0x3f000000)),
		false,
	},
	{
		"bools",
		&Message{Address: "/b", Arguments: []interface{}{true, false}},
		[]byte("/b" + nulls(2) + ",TF" + nulls(1)),
		false,
	},
	{
		"string",
		&Message{Address: "/s", Arguments: []interface{}{"hi"}},
		[]byte("/s" + nulls(2) + ",s" + nulls(2) + "hi" + nulls(2)),
		false,
	},
	{
		"blob",
		&Message{Address: "/x", Arguments: []interface{}{[]byte{1, 2, 3}}},
		[]byte("/x" + nulls(2) + ",b" + nulls(2) + be32(3) + "\x01\x02\x03" + nulls(1)),
		false,
	},
	{
		"nil_and_timetag",
		&Message{Address: "/t", Arguments: []interface{}{nil, NewTimetag(1, 2)}},
		[]byte("/t" + nulls(2) + ",Nt" + nulls(1) + be32(1) + be32(2)),
		false,
	},
}

var bundleTestCases = []testCase{
	{
		"empty",
		&Bundle{Timetag: 1},
		[]byte("#bundle" + nulls(1) + nulls(4) + be32(1)),
		false,
	},
	{
		"nested",
		&Bundle{Elements: []Packet{
			&Bundle{Timetag: NewTimetag(5, 6), Elements: []Packet{
				&Message{Address: "/p", Arguments: []interface{}{float32(0.5)}},
			}},
		}},
		[]byte("#bundle" + nulls(1) + nulls(8) + be32(32) +
			"#bundle" + nulls(1) + be32(5) + be32(6) + be32(12) +
			"/p" + nulls(2) + ",f" + nulls(2) + be32(0x3f000000)),
		false,
	},
	{
		"two_messages",
		&Bundle{Timetag: NewTimetag(7, 0), Elements: []Packet{
			&Message{Address: "/on", Arguments: []interface{}{true}},
			&Message{Address: "/key", Arguments: []interface{}{int32(61)}},
		}},
		[]byte("#bundle" + nulls(1) + be32(7) + nulls(4) +
			be32(8) + "/on" + nulls(1) + ",T" + nulls(2) +
			be32(16) + "/key" + nulls(4) + ",i" + nulls(2) + be32(61)),
		false,
	},
}
