package progress

import "testing"

func TestFuncSink(t *testing.T) {
	var got []Message
	sink := FuncSink(func(m Message) { got = append(got, m) })

	sink.Send(Status{Text: "oi", Severity: SeverityInfo})
	sink.Send(Finish{Success: true})

	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if st, ok := got[0].(Status); !ok || st.Text != "oi" {
		t.Errorf("first message: %+v", got[0])
	}
}

func TestChannelSink_DeliversWhenRoomExists(t *testing.T) {
	ch := make(chan Message, 1)
	sink := NewChannelSink(ch)

	sink.Send(Progress{Fraction: 0.5})

	select {
	case m := <-ch:
		if p, ok := m.(Progress); !ok || p.Fraction != 0.5 {
			t.Errorf("got %+v, want Progress{0.5}", m)
		}
	default:
		t.Fatal("message should have been delivered")
	}
}

func TestChannelSink_NeverBlocks(t *testing.T) {
	ch := make(chan Message, 1)
	sink := NewChannelSink(ch)

	// Fill the buffer, then keep sending. A blocking sink would deadlock
	// the test here.
	for i := 0; i < 100; i++ {
		sink.Send(BatchProgress{Fraction: float64(i) / 100})
	}

	if len(ch) != 1 {
		t.Errorf("buffered: got %d, want 1", len(ch))
	}
}
