package issues_test

import (
	"context"
	"testing"
	"time"

	"github.com/signature-opensource/CK-Globalization-sub001/pkg/composite"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/culture"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/issues"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/translation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessage(t *testing.T, resName, format string, opts ...translation.MessageOption) *translation.Message {
	t.Helper()

	reg, err := culture.NewRegistry("en")
	require.NoError(t, err)

	allOpts := append([]translation.MessageOption{translation.WithResourceName(resName)}, opts...)
	m, err := translation.NewMessage(reg.Default(), format, nil, allOpts...)
	require.NoError(t, err)
	return m
}

func mustFormat(t *testing.T, text string) *composite.Format {
	t.Helper()
	f, err := composite.Parse(text)
	require.NoError(t, err)
	return f
}

// drain collects every issue published until the subscriber closes.
func drain(sub *issues.Subscriber) []issues.Issue {
	var out []issues.Issue
	for issue := range sub.C() {
		out = append(out, issue)
	}
	return out
}

func TestAgentLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("starts on first event and stops on close", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent()
		assert.Equal(t, issues.StateStopped, agent.State())

		agent.MissingTranslation("fr", newMessage(t, "Greet", "Hello {0}"), nil)
		assert.Equal(t, issues.StateRunning, agent.State())

		require.NoError(t, agent.Close())
		assert.Equal(t, issues.StateStopped, agent.State())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent()
		agent.MissingTranslation("fr", newMessage(t, "Greet", "Hello {0}"), nil)
		require.NoError(t, agent.Close())
		require.NoError(t, agent.Close())
	})

	t.Run("close without any event", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent()
		require.NoError(t, agent.Close())
		assert.Equal(t, issues.StateStopped, agent.State())
	})

	t.Run("flush and report succeed after close", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent()
		agent.MissingTranslation("fr", newMessage(t, "Greet", "Hello {0}"), nil)
		require.NoError(t, agent.Close())

		require.NoError(t, agent.Flush(context.Background()))

		report, err := agent.Report(context.Background())
		require.NoError(t, err)
		assert.Len(t, report.MissingTranslations, 1)
	})
}

func TestFlushBarrier(t *testing.T) {
	t.Parallel()

	agent := issues.NewAgent()
	defer agent.Close()

	for range 100 {
		agent.MissingTranslation("fr", newMessage(t, "Greet", "Hello {0}"), nil)
	}
	require.NoError(t, agent.Flush(context.Background()))

	report, err := agent.Report(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.MissingTranslations, 1, "dedupe kept the first of 100 identical reports")
}

func TestDeduplication(t *testing.T) {
	t.Parallel()

	t.Run("missing translation publishes once per culture and resource", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent()
		defer agent.Close()

		sub := agent.Subscribe(context.Background())
		m := newMessage(t, "Greet", "Hello {0}")

		agent.MissingTranslation("fr", m, nil)
		agent.MissingTranslation("fr", m, nil)
		agent.MissingTranslation("de", m, nil)
		require.NoError(t, agent.Flush(context.Background()))
		require.NoError(t, agent.Close())

		published := drain(sub)
		require.Len(t, published, 2)
		assert.Equal(t, "fr", published[0].Culture)
		assert.Equal(t, "de", published[1].Culture)
		for _, issue := range published {
			assert.Equal(t, issues.KindMissingTranslation, issue.Kind)
			assert.Equal(t, "Greet", issue.Resource)
			assert.NotEmpty(t, issue.ID)
		}
	})

	t.Run("argument mismatch publishes once", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent()
		defer agent.Close()

		sub := agent.Subscribe(context.Background())
		m := newMessage(t, "Greet", "Hello {0}")
		found := mustFormat(t, "Bonjour {0} et {1}")

		agent.ArgumentCountMismatch("fr", m, found)
		agent.ArgumentCountMismatch("fr", m, found)
		require.NoError(t, agent.Close())

		published := drain(sub)
		require.Len(t, published, 1)
		assert.Equal(t, issues.KindArgumentCountMismatch, published[0].Kind)
		assert.Equal(t, 2, published[0].Expected)
		assert.Equal(t, 1, published[0].Actual)
	})

	t.Run("missing translation derives a mismatch from the travelling format", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent()
		defer agent.Close()

		sub := agent.Subscribe(context.Background())
		m := newMessage(t, "Greet", "Hello {0}")

		agent.MissingTranslation("fr-fr", m, mustFormat(t, "Bonjour {0} et {1}"))
		require.NoError(t, agent.Close())

		published := drain(sub)
		require.Len(t, published, 2)
		assert.Equal(t, issues.KindMissingTranslation, published[0].Kind)
		assert.Equal(t, issues.KindArgumentCountMismatch, published[1].Kind)
	})
}

func TestDiagnosticsGate(t *testing.T) {
	t.Parallel()

	t.Run("gate off suppresses translation issues", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent(issues.WithDiagnostics(false))
		defer agent.Close()

		assert.False(t, agent.Diagnostics())

		sub := agent.Subscribe(context.Background())
		agent.MissingTranslation("fr", newMessage(t, "Greet", "Hello {0}"), nil)
		agent.MessageCreated(newMessage(t, "Greet", "Hello {0}"))
		require.NoError(t, agent.Close())

		assert.Empty(t, drain(sub))
	})

	t.Run("identifier clashes bypass the gate", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent(issues.WithDiagnostics(false))
		defer agent.Close()

		sub := agent.Subscribe(context.Background())
		agent.IdentifierClash("fr", 43, []string{"en"})
		require.NoError(t, agent.Flush(context.Background()))

		clashes := agent.IdentifierClashes()
		require.Len(t, clashes, 1)
		assert.Equal(t, issues.KindIdentifierClash, clashes[0].Kind)
		assert.Equal(t, "fr", clashes[0].Culture)
		assert.Equal(t, uint32(43), clashes[0].CultureID)
		assert.Equal(t, []string{"en"}, clashes[0].Conflicts)

		require.NoError(t, agent.Close())
		published := drain(sub)
		require.Len(t, published, 1)
		assert.Equal(t, issues.KindIdentifierClash, published[0].Kind)
	})

	t.Run("clash list grows by copy then swap", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent()
		defer agent.Close()

		agent.IdentifierClash("aa", 1, []string{"bb"})
		require.NoError(t, agent.Flush(context.Background()))
		first := agent.IdentifierClashes()

		agent.IdentifierClash("cc", 2, []string{"dd"})
		require.NoError(t, agent.Flush(context.Background()))
		second := agent.IdentifierClashes()

		assert.Len(t, first, 1, "earlier snapshots are immutable")
		assert.Len(t, second, 2)
	})
}

func TestForward(t *testing.T) {
	t.Parallel()

	agent := issues.NewAgent()
	defer agent.Close()

	sub := agent.Subscribe(context.Background())
	agent.Forward(
		translation.Fault{Kind: translation.FaultDuplicateResource, Culture: "fr", Resource: "Greet", Format: "Salut {0}"},
		translation.Fault{Kind: translation.FaultParseError, Culture: "fr", Resource: "Bad", Format: "x {0:N2}", Err: assert.AnError},
	)
	require.NoError(t, agent.Close())

	published := drain(sub)
	require.Len(t, published, 2)
	assert.Equal(t, issues.KindDuplicateResource, published[0].Kind)
	assert.Equal(t, issues.KindFormatParseError, published[1].Kind)
	assert.Equal(t, assert.AnError, published[1].Err)
}

func TestSubscriber(t *testing.T) {
	t.Parallel()

	t.Run("context cancellation detaches the subscriber", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent()
		defer agent.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := agent.Subscribe(ctx)
		cancel()

		// The channel closes once the cleanup goroutine runs.
		select {
		case _, open := <-sub.C():
			assert.False(t, open)
		case <-time.After(time.Second):
			t.Fatal("subscriber channel was not closed")
		}
	})

	t.Run("subscribe after close yields a closed subscriber", func(t *testing.T) {
		t.Parallel()

		agent := issues.NewAgent()
		agent.IdentifierClash("aa", 1, nil)
		require.NoError(t, agent.Close())

		sub := agent.Subscribe(context.Background())
		_, open := <-sub.C()
		assert.False(t, open)
	})
}
