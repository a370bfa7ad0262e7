package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/martinsb/pantrylist/internal/common"
	"github.com/martinsb/pantrylist/internal/server/models"
)

// --- fakes ---

type fakeHouseholds struct {
	household *models.Household
	members   []*models.User
	err       error

	renamedTo   string
	addedEmail  string
	addedRole   models.HouseholdRole
	changedID   string
	changedRole models.HouseholdRole
	removedID   string
}

func (f *fakeHouseholds) Create(ctx context.Context, userID, name string) (*models.Household, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Household{ID: "h-1", Name: name}, nil
}

func (f *fakeHouseholds) Get(ctx context.Context, userID string) (*models.Household, []*models.User, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.household, f.members, nil
}

func (f *fakeHouseholds) Rename(ctx context.Context, userID, name string) error {
	f.renamedTo = name
	return f.err
}

func (f *fakeHouseholds) AddMember(ctx context.Context, managerID, email string, role models.HouseholdRole) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.addedEmail = email
	f.addedRole = role
	return &models.User{ID: "u-2", Email: email, HouseholdID: "h-1", Role: role}, nil
}

func (f *fakeHouseholds) ChangeRole(ctx context.Context, managerID, memberID string, role models.HouseholdRole) error {
	f.changedID = memberID
	f.changedRole = role
	return f.err
}

func (f *fakeHouseholds) RemoveMember(ctx context.Context, managerID, memberID string) error {
	f.removedID = memberID
	return f.err
}

type fakeLists struct {
	list  *models.ShoppingList
	items []*models.ShoppingItem
	item  *models.ShoppingItem
	err   error

	completedID  string
	completedVal bool
	checkedID    string
	checkedVal   bool
	deletedID    string
	clearedList  string
	clearedCount int64
}

func (f *fakeLists) Create(ctx context.Context, userID, name string) (*models.ShoppingList, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ShoppingList{ID: "l-1", Name: name, HouseholdID: "h-1"}, nil
}

func (f *fakeLists) List(ctx context.Context, userID string) ([]*models.ShoppingList, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.list == nil {
		return nil, nil
	}
	return []*models.ShoppingList{f.list}, nil
}

func (f *fakeLists) Get(ctx context.Context, userID, listID string) (*models.ShoppingList, []*models.ShoppingItem, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.list, f.items, nil
}

func (f *fakeLists) Rename(ctx context.Context, userID, listID, name string) error {
	return f.err
}

func (f *fakeLists) SetCompleted(ctx context.Context, userID, listID string, completed bool) error {
	f.completedID = listID
	f.completedVal = completed
	return f.err
}

func (f *fakeLists) Delete(ctx context.Context, userID, listID string) error {
	f.deletedID = listID
	return f.err
}

func (f *fakeLists) AddItem(ctx context.Context, userID, listID, name string, quantity int, notes, storeTagID string) (*models.ShoppingItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ShoppingItem{ID: "i-1", ListID: listID, Name: name, Quantity: quantity, Notes: notes, StoreTagID: storeTagID}, nil
}

func (f *fakeLists) UpdateItem(ctx context.Context, userID, itemID, name string, quantity int, notes, storeTagID string) (*models.ShoppingItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.item, nil
}

func (f *fakeLists) SetItemChecked(ctx context.Context, userID, itemID string, checked bool) error {
	f.checkedID = itemID
	f.checkedVal = checked
	return f.err
}

func (f *fakeLists) DeleteItem(ctx context.Context, userID, itemID string) error {
	f.deletedID = itemID
	return f.err
}

func (f *fakeLists) DeleteCheckedItems(ctx context.Context, userID, listID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.clearedList = listID
	return f.clearedCount, nil
}

type fakeTags struct {
	tag  *models.StoreTag
	tags []*models.StoreTag
	err  error

	deletedID string
}

func (f *fakeTags) Create(ctx context.Context, userID, name, description, colorHex string) (*models.StoreTag, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.StoreTag{ID: "t-1", Name: name, Description: description, ColorHex: colorHex}, nil
}

func (f *fakeTags) List(ctx context.Context, userID string) ([]*models.StoreTag, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tags, nil
}

func (f *fakeTags) Update(ctx context.Context, userID, tagID, name, description, colorHex string) (*models.StoreTag, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tag, nil
}

func (f *fakeTags) Delete(ctx context.Context, userID, tagID string) error {
	f.deletedID = tagID
	return f.err
}

func (h *apiHarness) households() *fakeHouseholds { return h.server.households.(*fakeHouseholds) }
func (h *apiHarness) lists() *fakeLists           { return h.server.lists.(*fakeLists) }
func (h *apiHarness) tags() *fakeTags             { return h.server.tags.(*fakeTags) }

// --- tests ---

func TestHouseholdCreate(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/household", `{"name":"Smith family"}`, h.bearer(t, "u-1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp householdResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.ID != "h-1" || resp.Name != "Smith family" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHouseholdGet_WithMembers(t *testing.T) {
	h := newAPIHarness(t)
	hh := h.households()
	hh.household = &models.Household{ID: "h-1", Name: "Smith family"}
	hh.members = []*models.User{
		{ID: "u-1", Email: "alice@example.com", Role: models.RoleManager},
		{ID: "u-2", Email: "bob@example.com", Role: models.RoleShopper},
	}

	rec := h.do(t, http.MethodGet, "/api/v1/household", "", h.bearer(t, "u-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp householdResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(resp.Members) != 2 || resp.Members[1].Role != "shopper" {
		t.Fatalf("unexpected members: %+v", resp.Members)
	}
}

func TestHouseholdErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"forbidden", common.E(common.CodeForbidden, "Insufficient role for this operation."), http.StatusForbidden},
		{"no household", common.E(common.CodeHouseholdRequired, "You are not a member of a household."), http.StatusForbidden},
		{"not found", common.E(common.CodeNotFound, "Member not found."), http.StatusNotFound},
		{"already member", common.E(common.CodeAlreadyInHousehold, "User already belongs to a household."), http.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAPIHarness(t)
			h.households().err = tt.err
			rec := h.do(t, http.MethodGet, "/api/v1/household", "", h.bearer(t, "u-1"))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMemberAdd(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/household/members",
		`{"email":"bob@example.com","role":"editor"}`, h.bearer(t, "u-1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	hh := h.households()
	if hh.addedEmail != "bob@example.com" || hh.addedRole != models.RoleEditor {
		t.Fatalf("add args: %q %q", hh.addedEmail, hh.addedRole)
	}
}

func TestMemberChangeRoleAndRemove(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPut, "/api/v1/household/members/u-2",
		`{"role":"reader"}`, h.bearer(t, "u-1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("change role status = %d", rec.Code)
	}
	hh := h.households()
	if hh.changedID != "u-2" || hh.changedRole != models.RoleReader {
		t.Fatalf("change args: %q %q", hh.changedID, hh.changedRole)
	}

	rec = h.do(t, http.MethodDelete, "/api/v1/household/members/u-2", "", h.bearer(t, "u-1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d", rec.Code)
	}
	if hh.removedID != "u-2" {
		t.Fatalf("remove id = %q", hh.removedID)
	}
}

func TestListGet_WithItems(t *testing.T) {
	h := newAPIHarness(t)
	l := h.lists()
	l.list = &models.ShoppingList{ID: "l-1", Name: "Weekly", HouseholdID: "h-1", CreatedAt: h.now}
	l.items = []*models.ShoppingItem{
		{ID: "i-1", ListID: "l-1", Name: "Milk", Quantity: 2, Checked: true},
		{ID: "i-2", ListID: "l-1", Name: "Bread", Quantity: 1, StoreTagID: "t-1"},
	}

	rec := h.do(t, http.MethodGet, "/api/v1/lists/l-1", "", h.bearer(t, "u-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.ID != "l-1" || len(resp.Items) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Items[0].Checked || resp.Items[1].StoreTagID != "t-1" {
		t.Fatalf("unexpected items: %+v", resp.Items)
	}
}

func TestListCompleteAndReopen(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/lists/l-1/complete", "", h.bearer(t, "u-1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("complete status = %d", rec.Code)
	}
	l := h.lists()
	if l.completedID != "l-1" || !l.completedVal {
		t.Fatalf("complete args: %q %v", l.completedID, l.completedVal)
	}

	rec = h.do(t, http.MethodPost, "/api/v1/lists/l-1/reopen", "", h.bearer(t, "u-1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reopen status = %d", rec.Code)
	}
	if l.completedVal {
		t.Fatalf("reopen must pass completed=false")
	}
}

func TestItemAdd(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/lists/l-1/items",
		`{"name":"Milk","quantity":2,"notes":"semi-skimmed","storeTagId":"t-1"}`, h.bearer(t, "u-1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp itemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Name != "Milk" || resp.Quantity != 2 || resp.StoreTagID != "t-1" {
		t.Fatalf("unexpected item: %+v", resp)
	}
}

func TestItemCheckUncheck(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/items/i-1/check", "", h.bearer(t, "u-1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("check status = %d", rec.Code)
	}
	l := h.lists()
	if l.checkedID != "i-1" || !l.checkedVal {
		t.Fatalf("check args: %q %v", l.checkedID, l.checkedVal)
	}

	rec = h.do(t, http.MethodPost, "/api/v1/items/i-1/uncheck", "", h.bearer(t, "u-1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("uncheck status = %d", rec.Code)
	}
	if l.checkedVal {
		t.Fatalf("uncheck must pass checked=false")
	}
}

func TestItemsDeleteChecked(t *testing.T) {
	h := newAPIHarness(t)
	h.lists().clearedCount = 3

	rec := h.do(t, http.MethodDelete, "/api/v1/lists/l-1/items/checked", "", h.bearer(t, "u-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp["deleted"] != 3 {
		t.Fatalf("deleted = %d", resp["deleted"])
	}
	if h.lists().clearedList != "l-1" {
		t.Fatalf("list id = %q", h.lists().clearedList)
	}
}

func TestTagCreateAndList(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/tags",
		`{"name":"Bakery","colorHex":"#FFAA00"}`, h.bearer(t, "u-1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created tagResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if created.Name != "Bakery" || created.ColorHex != "#FFAA00" {
		t.Fatalf("unexpected tag: %+v", created)
	}

	h.tags().tags = []*models.StoreTag{
		{ID: "t-1", Name: "Bakery", ColorHex: "#FFAA00", CreatedAt: h.now},
		{ID: "t-2", Name: "Dairy", CreatedAt: h.now.Add(time.Minute)},
	}
	rec = h.do(t, http.MethodGet, "/api/v1/tags", "", h.bearer(t, "u-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed []tagResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("listed %d tags", len(listed))
	}
}

func TestTagDelete(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodDelete, "/api/v1/tags/t-1", "", h.bearer(t, "u-1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if h.tags().deletedID != "t-1" {
		t.Fatalf("deleted id = %q", h.tags().deletedID)
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newAPIHarness(t)
	rec := h.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
