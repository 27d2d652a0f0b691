package models

import "github.com/google/uuid"

// Owner — владелец корзины: либо покупатель, либо анонимная сессия.
// Поля не экспортируются, собрать Owner можно только конструкторами,
// так что "ровно один владелец" гарантирован на уровне типа.
type Owner struct {
	userID uuid.UUID
	token  string
}

func UserOwner(id uuid.UUID) Owner {
	return Owner{userID: id}
}

func AnonymousOwner(token string) Owner {
	return Owner{token: token}
}

// UserID возвращает идентификатор покупателя, если владелец — пользователь.
func (o Owner) UserID() (uuid.UUID, bool) {
	if o.userID != uuid.Nil {
		return o.userID, true
	}
	return uuid.Nil, false
}

// SessionToken возвращает токен анонимной сессии, если владелец — сессия.
func (o Owner) SessionToken() (string, bool) {
	if o.userID == uuid.Nil && o.token != "" {
		return o.token, true
	}
	return "", false
}

func (o Owner) IsUser() bool { return o.userID != uuid.Nil }

// IsZero — Owner, собранный не конструктором; такие значения отвергаются
// на границе репозитория.
func (o Owner) IsZero() bool { return o.userID == uuid.Nil && o.token == "" }
