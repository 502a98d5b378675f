package scripting

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vanago/channel/internal/net/serverpacket"
	"github.com/vanago/channel/internal/world"
)

type grant struct {
	kind   string
	id     int32
	amount int32
}

type fakeGranter struct {
	grants []grant
	refuse bool
}

func (g *fakeGranter) GiveItem(p *world.Player, itemID int32, amount int16) bool {
	g.grants = append(g.grants, grant{"item", itemID, int32(amount)})
	return !g.refuse
}

func (g *fakeGranter) GiveMesos(p *world.Player, amount int32) bool {
	g.grants = append(g.grants, grant{"mesos", 0, amount})
	return !g.refuse
}

func (g *fakeGranter) GiveFame(p *world.Player, amount int32) {
	g.grants = append(g.grants, grant{"fame", 0, amount})
}

func TestQuestDialogueGrants(t *testing.T) {
	f := newFixture(t)
	g := &fakeGranter{}
	f.engine.SetGranter(g)
	if err := f.engine.Compile(questDir, "2013", `
		if quest_id() ~= 2013 or npc_id() ~= 2020005 then error("context") end
		if is_start() then return end
		if not give_item(4031013, -30) then error("refused") end
		give_mesos(1500)
		give_fame(1)
	`); err != nil {
		t.Fatal(err)
	}

	if err := f.engine.RunQuestDialogue(f.player, 2013, 2020005, true); err != nil {
		t.Fatal(err)
	}
	if len(g.grants) != 0 {
		t.Fatalf("expected no grants on start, got %v", g.grants)
	}

	if err := f.engine.RunQuestDialogue(f.player, 2013, 2020005, false); err != nil {
		t.Fatal(err)
	}
	want := []grant{{"item", 4031013, -30}, {"mesos", 0, 1500}, {"fame", 0, 1}}
	if len(g.grants) != len(want) {
		t.Fatalf("expected %v, got %v", want, g.grants)
	}
	for i := range want {
		if g.grants[i] != want[i] {
			t.Errorf("grant %d: expected %v, got %v", i, want[i], g.grants[i])
		}
	}
}

func TestQuestDialogueGrantResult(t *testing.T) {
	f := newFixture(t)
	f.engine.SetGranter(&fakeGranter{refuse: true})
	if err := f.engine.Compile(questDir, "1000", `
		if give_mesos(-100) then error("expected refusal") end
	`); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.RunQuestDialogue(f.player, 1000, 2100, false); err != nil {
		t.Fatal(err)
	}
}

func TestQuestDialogueEffects(t *testing.T) {
	f := newFixture(t)
	conn := &fakeConn{}
	f.player.Conn = conn
	if err := f.engine.Compile(questDir, "7000", `
		show_effect("quest/party/clear")
		play_sound("Party1/Clear")
		show_event("quest/carnival/win")
		minigame_sound("Win")
		portal_sound()
	`); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.RunQuestDialogue(f.player, 7000, 2030008, true); err != nil {
		t.Fatal(err)
	}
	want := [][]byte{
		serverpacket.SendEffect("quest/party/clear"),
		serverpacket.SendFieldSound("Party1/Clear"),
		serverpacket.SendEvent("quest/carnival/win"),
		serverpacket.SendMinigameSound("Win"),
		serverpacket.PlayPortalSound(),
	}
	if len(conn.sent) != len(want) {
		t.Fatalf("expected %d packets, got %d", len(want), len(conn.sent))
	}
	for i := range want {
		if !bytes.Equal(conn.sent[i], want[i]) {
			t.Errorf("packet %d: expected %x, got %x", i, want[i], conn.sent[i])
		}
	}
}

func TestQuestDialogueWithoutScript(t *testing.T) {
	f := newFixture(t)
	if err := f.engine.RunQuestDialogue(f.player, 4242, 1, true); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestQuestDialogueWithoutGranter(t *testing.T) {
	f := newFixture(t)
	if err := f.engine.Compile(questDir, "1000", `give_fame(1)`); err != nil {
		t.Fatal(err)
	}
	err := f.engine.RunQuestDialogue(f.player, 1000, 2100, false)
	if !errors.Is(err, ErrScriptContract) || !errors.Is(err, errNoGranter) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

func TestQuestDialogueBadArguments(t *testing.T) {
	f := newFixture(t)
	f.engine.SetGranter(&fakeGranter{})
	if err := f.engine.Compile(questDir, "1000", `give_item(2000000, 40000)`); err != nil {
		t.Fatal(err)
	}
	err := f.engine.RunQuestDialogue(f.player, 1000, 2100, false)
	if !errors.Is(err, ErrScriptContract) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}
