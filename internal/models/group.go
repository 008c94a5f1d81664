package models

import "time"

type Group struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"groupAvatar"`
	CreatedBy int       `json:"createdBy"`
	Members   []int     `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateGroupRequest struct {
	Name    string `json:"name"`
	Avatar  string `json:"groupAvatar"`
	Members []int  `json:"members"`
}

type AddMembersRequest struct {
	NewMembers []int `json:"newMembers"`
}

type EditGroupRequest struct {
	Name   string `json:"groupName"`
	Avatar string `json:"groupPic"` // base64 data URI, uploaded before persisting
}
