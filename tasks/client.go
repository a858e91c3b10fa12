package tasks

import (
	"github.com/Franka-Beyer/HSprakt/redis"
)

type Client struct {
	Queries QueryTasks
}

// NewClient is a preferred way for working with QueryTasks
func NewClient() (Client, error) {
	queriesRedisClient, err := redis.NewClient(QueriesDB)
	if err != nil {
		return Client{}, err
	}
	return Client{
		Queries: QueryTasks{client: &queriesRedisClient},
	}, nil
}

func (client *Client) Close() {
	_ = client.Queries.client.Close()
}
