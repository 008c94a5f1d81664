package services

import (
	"context"
	"fmt"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
)

// deliveryRecorder captures every push the services make so tests can assert
// on routing without live sockets.
type deliveryCall struct {
	kind    string // "user" or "group"
	userID  int
	groupID int
	exclude int
	event   string
	payload any
}

type deliveryRecorder struct {
	calls       []deliveryCall
	subscribed  []deliveryCall
	unsubbed    []deliveryCall
	droppedGrps []int
}

func (d *deliveryRecorder) SendToUser(userID int, event string, payload any) {
	d.calls = append(d.calls, deliveryCall{kind: "user", userID: userID, event: event, payload: payload})
}

func (d *deliveryRecorder) BroadcastToGroup(groupID, excludeUserID int, event string, payload any) {
	d.calls = append(d.calls, deliveryCall{kind: "group", groupID: groupID, exclude: excludeUserID, event: event, payload: payload})
}

func (d *deliveryRecorder) SubscribeUser(userID, groupID int) {
	d.subscribed = append(d.subscribed, deliveryCall{userID: userID, groupID: groupID})
}

func (d *deliveryRecorder) UnsubscribeUser(userID, groupID int) {
	d.unsubbed = append(d.unsubbed, deliveryCall{userID: userID, groupID: groupID})
}

func (d *deliveryRecorder) DropGroup(groupID int) {
	d.droppedGrps = append(d.droppedGrps, groupID)
}

func (d *deliveryRecorder) byEvent(event string) []deliveryCall {
	var matched []deliveryCall
	for _, call := range d.calls {
		if call.event == event {
			matched = append(matched, call)
		}
	}
	return matched
}

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int]*models.User{}, nextID: 1}
	for _, u := range users {
		r.users[u.ID] = u
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(excludeID int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if u.ID == excludeID || u.ID == models.SystemUserID {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetNames(ids []int) ([]string, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			names = append(names, u.FullName)
		}
	}
	return names, nil
}

type fakeGroupRepo struct {
	groups map[int]*models.Group
	nextID int
}

func newFakeGroupRepo(groups ...*models.Group) *fakeGroupRepo {
	r := &fakeGroupRepo{groups: map[int]*models.Group{}, nextID: 1}
	for _, g := range groups {
		r.groups[g.ID] = g
		if g.ID >= r.nextID {
			r.nextID = g.ID + 1
		}
	}
	return r
}

func (r *fakeGroupRepo) Create(group *models.Group) error {
	group.ID = r.nextID
	r.nextID++
	r.groups[group.ID] = group
	return nil
}

func (r *fakeGroupRepo) GetByID(id int) (*models.Group, error) {
	return r.groups[id], nil
}

func (r *fakeGroupRepo) ListByMember(userID int) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range r.groups {
		for _, m := range g.Members {
			if m == userID {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) ListIDsByMember(userID int) ([]int, error) {
	groups, _ := r.ListByMember(userID)
	ids := make([]int, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

func (r *fakeGroupRepo) MemberIDs(groupID int) ([]int, error) {
	g, ok := r.groups[groupID]
	if !ok {
		return nil, nil
	}
	return g.Members, nil
}

func (r *fakeGroupRepo) IsMember(groupID, userID int) (bool, error) {
	g, ok := r.groups[groupID]
	if !ok {
		return false, nil
	}
	for _, m := range g.Members {
		if m == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGroupRepo) AddMembers(groupID int, userIDs []int) ([]int, error) {
	g, ok := r.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %d not found", groupID)
	}
	var added []int
	for _, id := range userIDs {
		member, _ := r.IsMember(groupID, id)
		if member {
			continue
		}
		g.Members = append(g.Members, id)
		added = append(added, id)
	}
	return added, nil
}

func (r *fakeGroupRepo) RemoveMember(groupID, userID int) error {
	g, ok := r.groups[groupID]
	if !ok {
		return nil
	}
	kept := g.Members[:0]
	for _, m := range g.Members {
		if m != userID {
			kept = append(kept, m)
		}
	}
	g.Members = kept
	return nil
}

func (r *fakeGroupRepo) UpdateDetails(groupID int, name, avatar string) error {
	g, ok := r.groups[groupID]
	if !ok {
		return nil
	}
	if name != "" {
		g.Name = name
	}
	if avatar != "" {
		g.Avatar = avatar
	}
	return nil
}

func (r *fakeGroupRepo) Delete(groupID int) error {
	delete(r.groups, groupID)
	return nil
}

type fakeMessageRepo struct {
	messages  []*models.Message
	nextID    int
	createErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1}
}

func (r *fakeMessageRepo) Create(msg *models.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	msg.ID = r.nextID
	r.nextID++
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeMessageRepo) ListDirect(userA, userB int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range r.messages {
		if m.ReceiverID == nil {
			continue
		}
		if (m.SenderID == userA && *m.ReceiverID == userB) || (m.SenderID == userB && *m.ReceiverID == userA) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) ListGroup(groupID int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range r.messages {
		if m.GroupID != nil && *m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkDirectRead(senderID, receiverID int) (int64, error) {
	var flipped int64
	for _, m := range r.messages {
		if m.ReceiverID != nil && m.SenderID == senderID && *m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			flipped++
		}
	}
	return flipped, nil
}

func (r *fakeMessageRepo) MarkGroupRead(groupID, readerID int) (int64, error) {
	var flipped int64
	for _, m := range r.messages {
		if m.GroupID != nil && *m.GroupID == groupID && m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			flipped++
		}
	}
	return flipped, nil
}

type fakeUploader struct {
	uploads []string
	err     error
}

func (u *fakeUploader) UploadImage(_ context.Context, data string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.uploads = append(u.uploads, data)
	return fmt.Sprintf("https://cdn.test/%d.png", len(u.uploads)), nil
}
