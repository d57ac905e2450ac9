package pk3

import "github.com/jonathan/pku-porter/internal/codec"

// blockOrders lists, for each PID%24, the substructure stored at each
// position. Substructures are numbered Growth 0, Attacks 1, EVs 2, Misc 3.
var blockOrders = [24][4]int{
	{0, 1, 2, 3}, {0, 1, 3, 2}, {0, 2, 1, 3}, {0, 2, 3, 1}, {0, 3, 1, 2}, {0, 3, 2, 1},
	{1, 0, 2, 3}, {1, 0, 3, 2}, {1, 2, 0, 3}, {1, 2, 3, 0}, {1, 3, 0, 2}, {1, 3, 2, 0},
	{2, 0, 1, 3}, {2, 0, 3, 1}, {2, 1, 0, 3}, {2, 1, 3, 0}, {2, 3, 0, 1}, {2, 3, 1, 0},
	{3, 0, 1, 2}, {3, 0, 2, 1}, {3, 1, 0, 2}, {3, 1, 2, 0}, {3, 2, 0, 1}, {3, 2, 1, 0},
}

// Encrypt converts a decrypted record into save-file order: the data
// substructures are shuffled by PID%24 and XORed with PID^OTID.
func Encrypt(decrypted []byte) ([]byte, error) {
	if len(decrypted) != BoxSize && len(decrypted) != PartySize {
		return nil, &SizeError{Size: len(decrypted)}
	}
	out := make([]byte, len(decrypted))
	copy(out, decrypted)

	order := blockOrders[fieldPID.Get(decrypted)%24]
	for pos, block := range order {
		copy(out[dataStart+pos*blockSize:], decrypted[dataStart+block*blockSize:dataStart+(block+1)*blockSize])
	}
	xorData(out)
	return out, nil
}

// Decrypt is the inverse of Encrypt.
func Decrypt(encrypted []byte) ([]byte, error) {
	if len(encrypted) != BoxSize && len(encrypted) != PartySize {
		return nil, &SizeError{Size: len(encrypted)}
	}
	plain := make([]byte, len(encrypted))
	copy(plain, encrypted)
	xorData(plain)

	out := make([]byte, len(plain))
	copy(out, plain)
	order := blockOrders[fieldPID.Get(plain)%24]
	for pos, block := range order {
		copy(out[dataStart+block*blockSize:], plain[dataStart+pos*blockSize:dataStart+(pos+1)*blockSize])
	}
	return out, nil
}

func xorData(b []byte) {
	key := fieldPID.Get(b) ^ fieldOTID.Get(b)
	for off := dataStart; off < dataStart+dataSize; off += 4 {
		codec.SetUint(b, off, 4, codec.GetUint(b, off, 4)^key)
	}
}
