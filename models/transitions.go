package models

// Transition advances a game's regular/best-bet slot after team is clicked.
// Each team cycles none -> regular -> best_bet -> none, and clicking the
// other team always starts over at regular.
func Transition(current *Selection, clicked string) *Selection {
	if current == nil || current.Team != clicked {
		return &Selection{Team: clicked, Kind: PickKindRegular}
	}
	if current.Kind == PickKindRegular {
		return &Selection{Team: clicked, Kind: PickKindBestBet}
	}
	return nil
}

// TransitionMNF toggles the monday night pick. An empty string means no pick.
func TransitionMNF(current, clicked string) string {
	if current == clicked {
		return ""
	}
	return clicked
}

// SelectSingleton toggles a survivor or underdog slot: the selected team
// clears it, any other team replaces it.
func SelectSingleton(current, clicked string) string {
	if current == clicked {
		return ""
	}
	return clicked
}
