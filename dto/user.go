package dto

import "github.com/yakir1992/todoapp/model"

type AuthResponse struct {
	Token   string        `json:"token"`
	Refresh string        `json:"refresh"`
	User    model.Account `json:"user"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type TokenPair struct {
	Token   string `json:"token"`
	Refresh string `json:"refresh"`
}

type HealthResponse struct {
	Connected bool       `json:"connected"`
	Redis     bool       `json:"redis"`
	CPU       float64    `json:"cpu_percent"`
	Pool      PoolHealth `json:"mongo_pool"`
}

type PoolHealth struct {
	Open    int64 `json:"open"`
	InUse   int64 `json:"in_use"`
	Created int64 `json:"created"`
	Closed  int64 `json:"closed"`
}
