package card

import "fmt"

// Card 牌枚举
//
// 编码规则:
// - 高4位: 花色 (0:Spade, 1:Club, 2:Diamond, 3:Heart)
// - 低4位: 点数 (1:7, 2:8, 3:9, 4:T, 5:J, 6:Q, 7:K, 8:A)
type Card byte

const CardInvalid Card = 0

func New(s Suit, r Rank) Card {
	return Card(byte(s)<<4 | byte(r))
}

func (c Card) Rank() Rank { return Rank(c & 0x0F) }

func (c Card) Suit() Suit { return Suit(c >> 4) }

func (c Card) Valid() bool {
	return c.Rank().Valid() && c.Suit().Valid()
}

func (c Card) String() string {
	if !c.Valid() {
		return "Invalid"
	}
	return fmt.Sprintf("%s%s", c.Suit(), c.Rank())
}

// Code is the compact text form used on the wire and in replay specs, e.g. "Js", "Th".
func (c Card) Code() string {
	if !c.Valid() {
		return ""
	}
	return c.Rank().String() + string(c.Suit().code())
}

// Parse 将字符串 (如 "Js", "Td", "10h") 转换为 Card
func Parse(raw string) (Card, error) {
	if len(raw) < 2 {
		return CardInvalid, fmt.Errorf("invalid card string: %s", raw)
	}
	suit, err := ParseSuit(raw[len(raw)-1:])
	if err != nil {
		return CardInvalid, err
	}
	rank, err := ParseRank(raw[:len(raw)-1])
	if err != nil {
		return CardInvalid, err
	}
	return New(suit, rank), nil
}

// MustParse panics on malformed input; meant for fixtures.
func MustParse(raw string) Card {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func ParseList(raws []string) ([]Card, error) {
	out := make([]Card, 0, len(raws))
	for _, raw := range raws {
		c, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func Codes(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Code())
	}
	return out
}
