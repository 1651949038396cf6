package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// Firma de la función del contrato TransferLedger. El selector son los
// primeros 4 bytes del keccak de esta firma.
const requestTransferSig = "requestTransfer(string,string,string,bytes32)"

var requestTransferArgs = buildRequestTransferArgs()

func buildRequestTransferArgs() abi.Arguments {
	str, err := abi.NewType("string", "", nil)
	if err != nil {
		panic("abi type string: " + err.Error())
	}
	b32, err := abi.NewType("bytes32", "", nil)
	if err != nil {
		panic("abi type bytes32: " + err.Error())
	}
	return abi.Arguments{
		{Name: "transferId", Type: str},
		{Name: "fromLocation", Type: str},
		{Name: "toLocation", Type: str},
		{Name: "itemsHash", Type: b32},
	}
}

// encodeRequestTransfer arma el calldata: selector + argumentos ABI-encoded.
func encodeRequestTransfer(transferID, from, to string, itemsHash [32]byte) ([]byte, error) {
	packed, err := requestTransferArgs.Pack(transferID, from, to, itemsHash)
	if err != nil {
		return nil, fmt.Errorf("empaquetar argumentos ABI: %w", err)
	}
	selector := crypto.Keccak256([]byte(requestTransferSig))[:4]
	return append(selector, packed...), nil
}
