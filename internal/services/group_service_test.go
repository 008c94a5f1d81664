package services

import (
	"context"
	"errors"
	"testing"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
	"github.com/regulus1128/lynkup-chat-app/internal/realtime"
)

func newGroupFixture() (*fakeGroupRepo, *fakeUserRepo, *fakeMessageRepo, *deliveryRecorder, GroupService) {
	groups := newFakeGroupRepo(&models.Group{ID: 7, Name: "trip", CreatedBy: 1, Members: []int{1, 2}})
	users := newFakeUserRepo(
		&models.User{ID: 1, FullName: "Alice"},
		&models.User{ID: 2, FullName: "Bob"},
		&models.User{ID: 3, FullName: "Carol"},
		&models.User{ID: 4, FullName: "Dave"},
		&models.User{ID: 5, FullName: "Erin"},
	)
	messages := newFakeMessageRepo()
	delivery := &deliveryRecorder{}
	svc := NewGroupService(groups, users, messages, &fakeUploader{}, delivery)
	return groups, users, messages, delivery, svc
}

func TestCreateGroupAddsCreatorAndSubscribes(t *testing.T) {
	_, _, _, delivery, svc := newGroupFixture()

	group, err := svc.Create(context.Background(), 3, models.CreateGroupRequest{
		Name:    "  weekend  ",
		Members: []int{4, 3, 5}, // creator listed again, must not duplicate
	})
	if err != nil {
		t.Fatal(err)
	}
	if group.Name != "weekend" {
		t.Fatalf("name = %q", group.Name)
	}
	want := []int{3, 4, 5}
	if len(group.Members) != len(want) {
		t.Fatalf("members = %v, want %v", group.Members, want)
	}
	for i, id := range want {
		if group.Members[i] != id {
			t.Fatalf("members = %v, want %v", group.Members, want)
		}
	}
	if len(delivery.subscribed) != 3 {
		t.Fatalf("every member should be subscribed, got %d", len(delivery.subscribed))
	}
}

func TestCreateGroupValidation(t *testing.T) {
	_, _, _, _, svc := newGroupFixture()

	if _, err := svc.Create(context.Background(), 1, models.CreateGroupRequest{Name: " ", Members: []int{2}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name: want ErrValidation, got %v", err)
	}
	if _, err := svc.Create(context.Background(), 1, models.CreateGroupRequest{Name: "solo"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("no members: want ErrValidation, got %v", err)
	}
}

func TestAddMembersIsCreatorOnly(t *testing.T) {
	_, _, _, _, svc := newGroupFixture()

	if _, err := svc.AddMembers(context.Background(), 2, 7, []int{3}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestAddMembersAnnouncesJoiners(t *testing.T) {
	_, _, messages, delivery, svc := newGroupFixture()

	group, err := svc.AddMembers(context.Background(), 1, 7, []int{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(group.Members) != 4 {
		t.Fatalf("members = %v", group.Members)
	}

	if len(messages.messages) != 1 {
		t.Fatalf("expected a persisted system message, got %d", len(messages.messages))
	}
	sys := messages.messages[0]
	if !sys.IsSystem || sys.SenderID != models.SystemUserID {
		t.Fatalf("announcement must be a system message, got %+v", sys)
	}
	if sys.Text != "Carol and Dave have joined the group." {
		t.Fatalf("text = %q", sys.Text)
	}

	broadcasts := delivery.byEvent(realtime.EventNewMessage)
	if len(broadcasts) != 1 || broadcasts[0].groupID != 7 || broadcasts[0].exclude >= 0 {
		t.Fatalf("announcement must reach every member, got %+v", broadcasts)
	}
	if len(delivery.subscribed) != 2 {
		t.Fatalf("joiners must be subscribed to the channel, got %d", len(delivery.subscribed))
	}
}

func TestAddMembersSkipsExistingWithoutAnnouncing(t *testing.T) {
	_, _, messages, delivery, svc := newGroupFixture()

	if _, err := svc.AddMembers(context.Background(), 1, 7, []int{2}); err != nil {
		t.Fatal(err)
	}
	if len(messages.messages) != 0 {
		t.Fatalf("no-op add must not produce an announcement")
	}
	if len(delivery.subscribed) != 0 {
		t.Fatalf("no-op add must not resubscribe")
	}
}

func TestJoinedText(t *testing.T) {
	cases := []struct {
		names []string
		want  string
	}{
		{[]string{"Alice"}, "Alice has joined the group."},
		{[]string{"Alice", "Bob"}, "Alice and Bob have joined the group."},
		{[]string{"Alice", "Bob", "Carol"}, "Alice, Bob and Carol have joined the group."},
		{[]string{"Alice", "Bob", "Carol", "Dave"}, "Alice, Bob and 2 others have joined the group."},
		{[]string{"Alice", "Bob", "Carol", "Dave", "Erin"}, "Alice, Bob and 3 others have joined the group."},
	}
	for _, tc := range cases {
		if got := joinedText(tc.names); got != tc.want {
			t.Errorf("joinedText(%v) = %q, want %q", tc.names, got, tc.want)
		}
	}
}

func TestLeaveRemovesMemberAndAnnounces(t *testing.T) {
	groups, _, messages, delivery, svc := newGroupFixture()

	if err := svc.Leave(context.Background(), 2, 7); err != nil {
		t.Fatal(err)
	}

	group, _ := groups.GetByID(7)
	for _, m := range group.Members {
		if m == 2 {
			t.Fatalf("member 2 still present: %v", group.Members)
		}
	}
	if len(delivery.unsubbed) != 1 || delivery.unsubbed[0].userID != 2 {
		t.Fatalf("leaver must be unsubscribed, got %+v", delivery.unsubbed)
	}
	if len(messages.messages) != 1 || messages.messages[0].Text != "Bob has left the group." {
		t.Fatalf("announcement missing or wrong: %+v", messages.messages)
	}
}

func TestCreatorCannotLeave(t *testing.T) {
	_, _, _, _, svc := newGroupFixture()

	if err := svc.Leave(context.Background(), 1, 7); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestLeaveRequiresMembership(t *testing.T) {
	_, _, _, _, svc := newGroupFixture()

	if err := svc.Leave(context.Background(), 5, 7); !errors.Is(err, ErrNotGroupMember) {
		t.Fatalf("want ErrNotGroupMember, got %v", err)
	}
}

func TestEditIsCreatorOnly(t *testing.T) {
	groups, _, _, _, svc := newGroupFixture()

	if _, err := svc.Edit(context.Background(), 2, 7, models.EditGroupRequest{Name: "renamed"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}

	group, err := svc.Edit(context.Background(), 1, 7, models.EditGroupRequest{Name: "renamed"})
	if err != nil {
		t.Fatal(err)
	}
	if group.Name != "renamed" {
		t.Fatalf("name = %q", group.Name)
	}

	stored, _ := groups.GetByID(7)
	if stored.Name != "renamed" {
		t.Fatalf("rename not persisted")
	}
}

func TestDeleteDropsChannel(t *testing.T) {
	groups, _, _, delivery, svc := newGroupFixture()

	if err := svc.Delete(context.Background(), 2, 7); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}

	if err := svc.Delete(context.Background(), 1, 7); err != nil {
		t.Fatal(err)
	}
	if g, _ := groups.GetByID(7); g != nil {
		t.Fatalf("group must be gone")
	}
	if len(delivery.droppedGrps) != 1 || delivery.droppedGrps[0] != 7 {
		t.Fatalf("channel must be dropped, got %v", delivery.droppedGrps)
	}
}
