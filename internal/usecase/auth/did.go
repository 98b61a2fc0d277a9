package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrDIDMismatch       = errors.New("did does not match wallet address")
	ErrSignatureInvalid  = errors.New("signature malformed")
	ErrSignatureMismatch = errors.New("signature does not recover wallet address")
)

// FormatDID derives the deterministic identifier for a wallet:
// did:<method>:<wallet_address>.
func FormatDID(method, walletAddress string) string {
	return fmt.Sprintf("did:%s:%s", method, walletAddress)
}

// recoverSigner returns the wallet address that produced a secp256k1
// signature over the keccak256 digest of message.
func recoverSigner(message, signatureHex string) (string, error) {
	sig, err := hexutil.Decode(signatureHex)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	if len(sig) != ethcrypto.SignatureLength {
		return "", fmt.Errorf("%w: length %d", ErrSignatureInvalid, len(sig))
	}
	// accept both 0/1 and legacy 27/28 recovery ids
	if sig[ethcrypto.RecoveryIDOffset] >= 27 {
		sig[ethcrypto.RecoveryIDOffset] -= 27
	}
	digest := ethcrypto.Keccak256([]byte(message))
	pub, err := ethcrypto.SigToPub(digest, sig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return ethcrypto.PubkeyToAddress(*pub).Hex(), nil
}

// VerifyWalletSignature proves control of walletAddress by recovering the
// signer of message and comparing addresses.
func VerifyWalletSignature(walletAddress, message, signatureHex string) error {
	signer, err := recoverSigner(message, signatureHex)
	if err != nil {
		return err
	}
	if !strings.EqualFold(signer, walletAddress) {
		return ErrSignatureMismatch
	}
	return nil
}
