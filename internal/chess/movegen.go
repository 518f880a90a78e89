package chess

const (
	f1g1Mask = uint64(1)<<SquareF1 | uint64(1)<<SquareG1
	b1d1Mask = uint64(1)<<SquareB1 | uint64(1)<<SquareC1 | uint64(1)<<SquareD1
	f8g8Mask = uint64(1)<<SquareF8 | uint64(1)<<SquareG8
	b8d8Mask = uint64(1)<<SquareB8 | uint64(1)<<SquareC8 | uint64(1)<<SquareD8
)

var (
	whiteKingSideCastle  = MakeMove(SquareE1, SquareG1, King, Empty)
	whiteQueenSideCastle = MakeMove(SquareE1, SquareC1, King, Empty)
	blackKingSideCastle  = MakeMove(SquareE8, SquareG8, King, Empty)
	blackQueenSideCastle = MakeMove(SquareE8, SquareC8, King, Empty)
)

func addPromotions(ml []Move, move Move) int {
	ml[0] = move ^ Move(Queen<<18)
	ml[1] = move ^ Move(Rook<<18)
	ml[2] = move ^ Move(Bishop<<18)
	ml[3] = move ^ Move(Knight<<18)
	return 4
}

// GenerateMoves produces every pseudo-legal move (quiet and capture,
// including castling and promotions) into ml's backing array, returning
// the used prefix; a fresh array is allocated when ml's capacity is
// below MaxMoves. When in check, knight, bishop, rook and queen moves are
// limited to capturing the checker or blocking, king moves are not
// limited, and pawn moves are not filtered; legality (own king safety)
// is left to DoMove.
func (p *Position) GenerateMoves(ml []Move) []Move {
	var count = 0
	if cap(ml) < MaxMoves {
		ml = make([]Move, MaxMoves)
	} else {
		ml = ml[:cap(ml)]
	}
	var fromBB, toBB, ownPieces, oppPieces uint64
	var from, to int

	if p.WhiteMove {
		ownPieces, oppPieces = p.White, p.Black
	} else {
		ownPieces, oppPieces = p.Black, p.White
	}

	var target = ^ownPieces
	if p.Checkers != 0 {
		var kingSq = FirstOne(p.Kings & ownPieces)
		target = p.Checkers | betweenMask[FirstOne(p.Checkers)][kingSq]
	}

	var allPieces = p.White | p.Black
	var ownPawns = p.Pawns & ownPieces

	if p.EpSquare != SquareNone {
		for fromBB = PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			ml[count] = MakeMove(from, p.EpSquare, Pawn, Pawn)
			count++
		}
	}

	if p.WhiteMove {
		for fromBB = p.Pawns & ownPieces &^ Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if SquareMask[from+8]&allPieces == 0 {
				ml[count] = MakeMove(from, from+8, Pawn, Empty)
				count++
				if Rank(from) == Rank2 && SquareMask[from+16]&allPieces == 0 {
					ml[count] = MakeMove(from, from+16, Pawn, Empty)
					count++
				}
			}
			if File(from) > FileA && SquareMask[from+7]&oppPieces != 0 {
				ml[count] = MakeMove(from, from+7, Pawn, p.PieceOn(from+7))
				count++
			}
			if File(from) < FileH && SquareMask[from+9]&oppPieces != 0 {
				ml[count] = MakeMove(from, from+9, Pawn, p.PieceOn(from+9))
				count++
			}
		}
		for fromBB = p.Pawns & ownPieces & Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if SquareMask[from+8]&allPieces == 0 {
				count += addPromotions(ml[count:], MakeMove(from, from+8, Pawn, Empty))
			}
			if File(from) > FileA && SquareMask[from+7]&oppPieces != 0 {
				count += addPromotions(ml[count:], MakeMove(from, from+7, Pawn, p.PieceOn(from+7)))
			}
			if File(from) < FileH && SquareMask[from+9]&oppPieces != 0 {
				count += addPromotions(ml[count:], MakeMove(from, from+9, Pawn, p.PieceOn(from+9)))
			}
		}
	} else {
		for fromBB = p.Pawns & ownPieces &^ Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if SquareMask[from-8]&allPieces == 0 {
				ml[count] = MakeMove(from, from-8, Pawn, Empty)
				count++
				if Rank(from) == Rank7 && SquareMask[from-16]&allPieces == 0 {
					ml[count] = MakeMove(from, from-16, Pawn, Empty)
					count++
				}
			}
			if File(from) > FileA && SquareMask[from-9]&oppPieces != 0 {
				ml[count] = MakeMove(from, from-9, Pawn, p.PieceOn(from-9))
				count++
			}
			if File(from) < FileH && SquareMask[from-7]&oppPieces != 0 {
				ml[count] = MakeMove(from, from-7, Pawn, p.PieceOn(from-7))
				count++
			}
		}
		for fromBB = p.Pawns & ownPieces & Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if SquareMask[from-8]&allPieces == 0 {
				count += addPromotions(ml[count:], MakeMove(from, from-8, Pawn, Empty))
			}
			if File(from) > FileA && SquareMask[from-9]&oppPieces != 0 {
				count += addPromotions(ml[count:], MakeMove(from, from-9, Pawn, p.PieceOn(from-9)))
			}
			if File(from) < FileH && SquareMask[from-7]&oppPieces != 0 {
				count += addPromotions(ml[count:], MakeMove(from, from-7, Pawn, p.PieceOn(from-7)))
			}
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = KnightAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = MakeMove(from, to, Knight, p.PieceOn(to))
			count++
		}
	}

	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = BishopAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = MakeMove(from, to, Bishop, p.PieceOn(to))
			count++
		}
	}

	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = RookAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = MakeMove(from, to, Rook, p.PieceOn(to))
			count++
		}
	}

	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = QueenAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = MakeMove(from, to, Queen, p.PieceOn(to))
			count++
		}
	}

	from = FirstOne(p.Kings & ownPieces)
	for toBB = KingAttacks[from] &^ ownPieces; toBB != 0; toBB &= toBB - 1 {
		to = FirstOne(toBB)
		ml[count] = MakeMove(from, to, King, p.PieceOn(to))
		count++
	}

	if p.WhiteMove {
		if p.CastleRights&WhiteKingSide != 0 && allPieces&f1g1Mask == 0 &&
			!p.isAttackedBySide(SquareE1, false) && !p.isAttackedBySide(SquareF1, false) {
			ml[count] = whiteKingSideCastle
			count++
		}
		if p.CastleRights&WhiteQueenSide != 0 && allPieces&b1d1Mask == 0 &&
			!p.isAttackedBySide(SquareE1, false) && !p.isAttackedBySide(SquareD1, false) {
			ml[count] = whiteQueenSideCastle
			count++
		}
	} else {
		if p.CastleRights&BlackKingSide != 0 && allPieces&f8g8Mask == 0 &&
			!p.isAttackedBySide(SquareE8, true) && !p.isAttackedBySide(SquareF8, true) {
			ml[count] = blackKingSideCastle
			count++
		}
		if p.CastleRights&BlackQueenSide != 0 && allPieces&b8d8Mask == 0 &&
			!p.isAttackedBySide(SquareE8, true) && !p.isAttackedBySide(SquareD8, true) {
			ml[count] = blackQueenSideCastle
			count++
		}
	}

	return ml[:count]
}

// GenerateCaptures produces pseudo-legal captures and queen promotions
// (the quiescence-search move set). When genChecks is true it also adds
// quiet checking moves, matching the teacher's "noisy or checking" move
// generator used to seed quiescence in positions without standing pat.
func (p *Position) GenerateCaptures(ml []Move, genChecks bool) []Move {
	var count = 0
	if cap(ml) < MaxMoves {
		ml = make([]Move, MaxMoves)
	} else {
		ml = ml[:cap(ml)]
	}
	var fromBB, toBB, ownPieces, oppPieces uint64
	var from, to, promotion int

	if p.WhiteMove {
		ownPieces, oppPieces = p.White, p.Black
	} else {
		ownPieces, oppPieces = p.Black, p.White
	}

	var target = oppPieces
	var allPieces = p.White | p.Black

	if p.EpSquare != SquareNone {
		for fromBB = PawnAttacks(p.EpSquare, !p.WhiteMove) & p.Pawns & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			ml[count] = MakeMove(from, p.EpSquare, Pawn, Pawn)
			count++
		}
	}

	if p.WhiteMove {
		fromBB = (AllBlackPawnAttacks(oppPieces) | Rank7Mask) & p.Pawns & p.White
		for ; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			promotion = pick(Rank(from) == Rank7, Queen, Empty)
			if Rank(from) == Rank7 && SquareMask[from+8]&allPieces == 0 {
				ml[count] = MakePawnMove(from, from+8, Empty, promotion)
				count++
			}
			if File(from) > FileA && SquareMask[from+7]&oppPieces != 0 {
				ml[count] = MakePawnMove(from, from+7, p.PieceOn(from+7), promotion)
				count++
			}
			if File(from) < FileH && SquareMask[from+9]&oppPieces != 0 {
				ml[count] = MakePawnMove(from, from+9, p.PieceOn(from+9), promotion)
				count++
			}
		}
	} else {
		fromBB = (AllWhitePawnAttacks(oppPieces) | Rank2Mask) & p.Pawns & p.Black
		for ; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			promotion = pick(Rank(from) == Rank2, Queen, Empty)
			if Rank(from) == Rank2 && SquareMask[from-8]&allPieces == 0 {
				ml[count] = MakePawnMove(from, from-8, Empty, promotion)
				count++
			}
			if File(from) > FileA && SquareMask[from-9]&oppPieces != 0 {
				ml[count] = MakePawnMove(from, from-9, p.PieceOn(from-9), promotion)
				count++
			}
			if File(from) < FileH && SquareMask[from-7]&oppPieces != 0 {
				ml[count] = MakePawnMove(from, from-7, p.PieceOn(from-7), promotion)
				count++
			}
		}
	}

	var checksN, checksB, checksR, checksQ uint64
	if genChecks {
		var oppKing = FirstOne(p.Kings & oppPieces)
		checksN = KnightAttacks[oppKing] &^ allPieces
		checksB = BishopAttacks(oppKing, allPieces) &^ allPieces
		checksR = RookAttacks(oppKing, allPieces) &^ allPieces
		checksQ = checksB | checksR

		for fromBB = (p.Rooks | p.Queens) & ownPieces & RookAttacks(oppKing, 0); fromBB != 0; fromBB &= fromBB - 1 {
			var blockers = betweenMask[FirstOne(fromBB)][oppKing] & allPieces
			if blockers != 0 && blockers&(blockers-1) == 0 {
				from = FirstOne(blockers)
				if SquareMask[from]&ownPieces != 0 {
					if piece := p.PieceOn(from); piece == Knight {
						for toBB = KnightAttacks[from] &^ allPieces &^ checksN; toBB != 0; toBB &= toBB - 1 {
							to = FirstOne(toBB)
							ml[count] = MakeMove(from, to, Knight, p.PieceOn(to))
							count++
						}
					} else if piece == Bishop {
						for toBB = BishopAttacks(from, allPieces) &^ allPieces &^ checksB; toBB != 0; toBB &= toBB - 1 {
							to = FirstOne(toBB)
							ml[count] = MakeMove(from, to, Bishop, p.PieceOn(to))
							count++
						}
					}
				}
			}
		}

		for fromBB = (p.Bishops | p.Queens) & ownPieces & BishopAttacks(oppKing, 0); fromBB != 0; fromBB &= fromBB - 1 {
			var blockers = betweenMask[FirstOne(fromBB)][oppKing] & allPieces
			if blockers != 0 && blockers&(blockers-1) == 0 {
				from = FirstOne(blockers)
				if SquareMask[from]&ownPieces != 0 {
					switch p.PieceOn(from) {
					case Knight:
						for toBB = KnightAttacks[from] &^ allPieces &^ checksN; toBB != 0; toBB &= toBB - 1 {
							to = FirstOne(toBB)
							ml[count] = MakeMove(from, to, Knight, p.PieceOn(to))
							count++
						}
					case Rook:
						for toBB = RookAttacks(from, allPieces) &^ allPieces &^ checksR; toBB != 0; toBB &= toBB - 1 {
							to = FirstOne(toBB)
							ml[count] = MakeMove(from, to, Rook, p.PieceOn(to))
							count++
						}
					case Pawn:
						if p.WhiteMove {
							if allPieces&SquareMask[from+8] == 0 && Rank(from) != Rank7 &&
								SquareMask[from+8]&PawnAttacks(oppKing, false) == 0 {
								ml[count] = MakeMove(from, from+8, Pawn, Empty)
								count++
							}
						} else {
							if allPieces&SquareMask[from-8] == 0 && Rank(from) != Rank2 &&
								SquareMask[from-8]&PawnAttacks(oppKing, true) == 0 {
								ml[count] = MakeMove(from, from-8, Pawn, Empty)
								count++
							}
						}
					}
				}
			}
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = KnightAttacks[from] & (target | checksN); toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = MakeMove(from, to, Knight, p.PieceOn(to))
			count++
		}
	}

	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = BishopAttacks(from, allPieces) & (target | checksB); toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = MakeMove(from, to, Bishop, p.PieceOn(to))
			count++
		}
	}

	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = RookAttacks(from, allPieces) & (target | checksR); toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = MakeMove(from, to, Rook, p.PieceOn(to))
			count++
		}
	}

	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = QueenAttacks(from, allPieces) & (target | checksQ); toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = MakeMove(from, to, Queen, p.PieceOn(to))
			count++
		}
	}

	from = FirstOne(p.Kings & ownPieces)
	for toBB = KingAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
		to = FirstOne(toBB)
		ml[count] = MakeMove(from, to, King, p.PieceOn(to))
		count++
	}

	return ml[:count]
}

// GenerateLegalMoves filters GenerateMoves through DoMove, used by SAN
// parsing, perft, and tests rather than by the hot search path (which
// stays pseudo-legal for speed and rejects in DoMove).
func (p *Position) GenerateLegalMoves() []Move {
	var buffer [MaxMoves]Move
	var child Position
	var ml = make([]Move, 0, MaxMoves)
	for _, m := range p.GenerateMoves(buffer[:0]) {
		if p.DoMove(m, &child) {
			ml = append(ml, m)
		}
	}
	return ml
}
