// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transferlog

const transferTableSchema = `
CREATE TABLE IF NOT EXISTS transfer (
	txID blob(32) NOT NULL,
	transferIndex integer NOT NULL,
	slot integer NOT NULL,
	op text NOT NULL,
	signer blob(20) NOT NULL,
	sender blob(20) NOT NULL,
	recipient blob(20) NOT NULL,
	amount blob(8) NOT NULL,
	PRIMARY KEY (txID, transferIndex)
);

CREATE INDEX IF NOT EXISTS slotIndex ON transfer(slot);
CREATE INDEX IF NOT EXISTS senderIndex ON transfer(sender);
CREATE INDEX IF NOT EXISTS recipientIndex ON transfer(recipient);
CREATE INDEX IF NOT EXISTS signerIndex ON transfer(signer);
`
