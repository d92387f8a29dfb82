package redis

import (
	"fmt"

	"github.com/mcoot/reversigame-go/internal/model"
)

// keyspace builds every key under one prefix, so several deployments can
// share a Redis database
type keyspace struct {
	prefix string
}

func (k keyspace) player(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", k.prefix, id)
}

func (k keyspace) registeredPlayer(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", k.prefix, playerID)
}

// username maps a username to its player id
func (k keyspace) username(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", k.prefix, username)
}

func (k keyspace) session(token string) string {
	return fmt.Sprintf("%s:session:%s", k.prefix, token)
}

func (k keyspace) lobby(code model.LobbyCode) string {
	return fmt.Sprintf("%s:lobby:%s", k.prefix, code)
}

func (k keyspace) game(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", k.prefix, id)
}

// gamesForLobby is the SET of game keys played in a lobby
func (k keyspace) gamesForLobby(code model.LobbyCode) string {
	return fmt.Sprintf("%s:idx:games_for_lobby:%s", k.prefix, code)
}
